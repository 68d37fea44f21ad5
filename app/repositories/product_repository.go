package repositories

import (
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/orm"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindActive looks up a product that is still for sale.
func (r *ProductRepository) FindActive(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.Scopes(orm.NotDeleted).First(&product, "id = ?", id).Error
	return product, err
}

// Find looks up a product regardless of its soft-delete flag. Admin use.
func (r *ProductRepository) Find(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.First(&product, "id = ?", id).Error
	return product, err
}

// Catalog returns the customer-facing product page: non-deleted rows,
// newest first, optionally filtered by a name substring.
func (r *ProductRepository) Catalog(page, size int, search string) ([]models.Product, orm.Pagination, error) {
	query := r.db.Model(&models.Product{}).Scopes(orm.NotDeleted)
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	query = query.Order("created_at DESC")

	var products []models.Product
	pagination, err := orm.Paginate(query, page, size, &products)
	return products, pagination, err
}

// AdminList returns the admin product page. Soft-deleted rows are
// included so they can be restored.
func (r *ProductRepository) AdminList(page, size int, search string) ([]models.Product, orm.Pagination, error) {
	query := r.db.Model(&models.Product{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	query = query.Order("id DESC")

	var products []models.Product
	pagination, err := orm.Paginate(query, page, size, &products)
	return products, pagination, err
}

// Create persists a new product row.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Save persists changes to an existing product.
func (r *ProductRepository) Save(product *models.Product) error {
	return r.db.Save(product).Error
}
