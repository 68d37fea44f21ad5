package repositories

import (
	"time"

	"github.com/chenweihao/weishop/app/models"
	"gorm.io/gorm"
)

// CartRepository handles database operations for Cart and CartItem.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindOrCreate returns the user's cart with items and their products
// preloaded, creating an empty cart on first access.
func (r *CartRepository) FindOrCreate(userID uint) (models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return models.Cart{}, err
	}

	cart = models.Cart{UserID: userID, LastModifiedAt: time.Now().UTC()}
	if err := r.db.Create(&cart).Error; err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

// Touch bumps the cart's last-modified timestamp.
func (r *CartRepository) Touch(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("last_modified_at", time.Now().UTC()).Error
}
