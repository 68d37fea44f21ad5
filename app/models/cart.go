package models

import "time"

// Cart holds a user's pending purchases. One cart per user, created
// lazily on first access.
type Cart struct {
	ID             uint       `gorm:"primaryKey"           json:"id"`
	UserID         uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items          []CartItem `gorm:"foreignKey:CartID"    json:"items"`
	LastModifiedAt time.Time  `json:"last_modified_at"`
}

// CartItem is one product line in a cart.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"     json:"id"`
	CartID    uint      `gorm:"not null;index" json:"cart_id"`
	ProductID uint      `gorm:"not null"       json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `gorm:"not null"       json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
