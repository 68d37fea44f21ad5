package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/repositories"
	"github.com/chenweihao/weishop/pkg/cache"
	"github.com/chenweihao/weishop/pkg/logger"
	"github.com/chenweihao/weishop/pkg/orm"
	"github.com/chenweihao/weishop/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	catalogCachePrefix = "catalog:"
	catalogCacheTTL    = 5 * time.Minute
)

// ProductInput carries the writable product fields for admin mutations.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageURL    string
}

// ProductService serves the customer catalogue (cached) and the admin
// product management surface (which busts the cache on every mutation).
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{products: repositories.NewProductRepository(db)}
}

type catalogPage struct {
	Products   []models.Product `json:"products"`
	Pagination orm.Pagination   `json:"pagination"`
}

// Catalog returns the on-sale product page, newest first. Pages are
// cached in Redis; a miss falls through to the database.
func (s *ProductService) Catalog(page, size int, search string) ([]models.Product, orm.Pagination, error) {
	page, size = orm.ClampPage(page, size)
	key := fmt.Sprintf("%sp%d:s%d:q%s", catalogCachePrefix, page, size, search)

	var cached catalogPage
	if cache.Get(key, &cached) {
		return cached.Products, cached.Pagination, nil
	}

	products, pagination, err := s.products.Catalog(page, size, search)
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("catalog: %w", err)
	}

	if err := cache.Set(key, catalogPage{Products: products, Pagination: pagination}, catalogCacheTTL); err != nil {
		logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return products, pagination, nil
}

// GetActive returns one on-sale product. Soft-deleted products are not
// found through here.
func (s *ProductService) GetActive(id uint) (models.Product, error) {
	product, err := s.products.FindActive(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

// AdminGet returns any product, deleted or not.
func (s *ProductService) AdminGet(id uint) (models.Product, error) {
	product, err := s.products.Find(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

// AdminList returns the admin product page, soft-deleted rows included.
func (s *ProductService) AdminList(page, size int, search string) ([]models.Product, orm.Pagination, error) {
	page, size = orm.ClampPage(page, size)
	return s.products.AdminList(page, size, search)
}

// Create adds a product to the catalogue.
func (s *ProductService) Create(in ProductInput) (models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.forgetCatalog()
	return product, nil
}

// Update overwrites a product's fields. Works on soft-deleted rows too,
// so an admin can fix a listing before restoring it.
func (s *ProductService) Update(id uint, in ProductInput) (models.Product, error) {
	if err := validateProductInput(in); err != nil {
		return models.Product{}, err
	}

	product, err := s.AdminGet(id)
	if err != nil {
		return models.Product{}, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.ImageURL = in.ImageURL
	if err := s.products.Save(&product); err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.forgetCatalog()
	return product, nil
}

// SoftDelete takes a product off sale. Existing orders and the rows
// themselves are untouched; carts heal on their next read.
func (s *ProductService) SoftDelete(id uint) error {
	return s.setDeleted(id, true)
}

// Restore puts a soft-deleted product back on sale.
func (s *ProductService) Restore(id uint) error {
	return s.setDeleted(id, false)
}

func (s *ProductService) setDeleted(id uint, deleted bool) error {
	product, err := s.AdminGet(id)
	if err != nil {
		return err
	}
	if product.IsDeleted == deleted {
		return nil
	}

	product.IsDeleted = deleted
	if err := s.products.Save(&product); err != nil {
		return fmt.Errorf("flag product %d: %w", id, err)
	}

	s.forgetCatalog()
	return nil
}

// UploadImage stores a product image on the configured storage disk and
// stamps its public URL onto the product.
func (s *ProductService) UploadImage(id uint, file multipart.File, header *multipart.FileHeader) (models.Product, error) {
	product, err := s.AdminGet(id)
	if err != nil {
		return models.Product{}, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return models.Product{}, fmt.Errorf("%w: unsupported image type %q", ErrValidation, ext)
	}

	path := fmt.Sprintf("products/%d/%s%s", product.ID, uuid.NewString(), ext)
	if err := storage.PutStream(path, io.LimitReader(file, 10<<20)); err != nil {
		return models.Product{}, fmt.Errorf("store product image: %w", err)
	}

	product.ImageURL = storage.URL(path)
	if err := s.products.Save(&product); err != nil {
		return models.Product{}, fmt.Errorf("save product image url: %w", err)
	}

	s.forgetCatalog()
	return product, nil
}

func (s *ProductService) forgetCatalog() {
	if err := cache.ForgetPrefix(catalogCachePrefix); err != nil {
		logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	return nil
}
