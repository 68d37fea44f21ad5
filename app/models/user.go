package models

import "time"

// Role values stored on User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the primary user model.
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	Role      string    `gorm:"size:50;default:user"          json:"role"`
	IsLocked  bool      `gorm:"not null;default:false"        json:"is_locked"` // locked users cannot log in
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
