package repositories

import (
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/orm"
	"gorm.io/gorm"
)

// OrderRepository handles database reads for Order. Writes go through
// OrderService transactions.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindOwned looks up an order with all associations, scoped to its owner.
func (r *OrderRepository) FindOwned(id, userID uint) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("User").
		Preload("ShippingAddress").
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	return order, err
}

// Find looks up any order with all associations. Admin use.
func (r *OrderRepository) Find(id uint) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("User").
		Preload("ShippingAddress").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	return order, err
}

// ListByUser returns the user's orders, newest first, optionally
// filtered by status.
func (r *OrderRepository) ListByUser(userID uint, status models.OrderStatus, page, size int) ([]models.Order, orm.Pagination, error) {
	query := r.db.Model(&models.Order{}).
		Preload("Items.Product").
		Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Order("order_date DESC")

	var orders []models.Order
	pagination, err := orm.Paginate(query, page, size, &orders)
	return orders, pagination, err
}

// AdminList returns all orders, newest first, optionally filtered by
// status.
func (r *OrderRepository) AdminList(status models.OrderStatus, page, size int) ([]models.Order, orm.Pagination, error) {
	query := r.db.Model(&models.Order{}).
		Preload("User").
		Preload("ShippingAddress").
		Preload("Items.Product")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Order("order_date DESC")

	var orders []models.Order
	pagination, err := orm.Paginate(query, page, size, &orders)
	return orders, pagination, err
}
