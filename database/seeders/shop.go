package seeders

import (
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
	Register("products", SeedProducts)
}

// SeedAdmin creates the back-office account if it does not exist.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ?", "admin@weishop.local").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Administrator",
		Email:    "admin@weishop.local",
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}

// SeedProducts loads a small demo catalogue. Idempotent: skips when
// products already exist.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Ceramic Tea Set", Description: "Six-piece glazed tea set", Price: 68.00, Stock: 40},
		{Name: "Bamboo Cutting Board", Description: "End-grain bamboo board, 38cm", Price: 25.50, Stock: 120},
		{Name: "Thermos Flask 500ml", Description: "Vacuum insulated, keeps heat 12h", Price: 19.90, Stock: 200},
		{Name: "Canvas Tote Bag", Description: "Heavy cotton canvas, natural", Price: 9.99, Stock: 350},
		{Name: "Desk Lamp", Description: "LED, three colour temperatures", Price: 45.00, Stock: 75},
	}
	return db.Create(&products).Error
}
