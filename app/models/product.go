package models

import "time"

// Product represents a product in the catalogue.
//
// Soft delete is an explicit flag rather than gorm's DeletedAt so that
// every query spells out whether it wants deleted rows; customer-facing
// reads exclude them, admin reads may include them.
type Product struct {
	ID          uint      `gorm:"primaryKey"                   json:"id"`
	Name        string    `gorm:"size:255;not null;index"      json:"name"`
	Description string    `gorm:"type:text"                    json:"description"`
	Price       float64   `gorm:"not null"                     json:"price"`
	Stock       int       `gorm:"not null;default:0"           json:"stock"`
	ImageURL    string    `gorm:"size:500"                     json:"image_url"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
