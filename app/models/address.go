package models

import "time"

// Address is a user's shipping address.
//
// Invariant: among a user's non-deleted addresses at most one has
// IsDefault set. The address service maintains this procedurally and the
// initial migration adds a partial unique index on drivers that support
// one. A soft-deleted address is never the default.
type Address struct {
	ID            uint      `gorm:"primaryKey"                   json:"id"`
	UserID        uint      `gorm:"not null;index"               json:"user_id"`
	ContactName   string    `gorm:"size:100;not null"            json:"contact_name"`
	PhoneNumber   string    `gorm:"size:20;not null"             json:"phone_number"`
	Province      string    `gorm:"size:100"                     json:"province"`
	City          string    `gorm:"size:100"                     json:"city"`
	StreetAddress string    `gorm:"size:200;not null"            json:"street_address"`
	PostalCode    string    `gorm:"size:20"                      json:"postal_code"`
	IsDefault     bool      `gorm:"not null;default:false"       json:"is_default"`
	IsDeleted     bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
