package services

import (
	"errors"
	"fmt"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/repositories"
	"github.com/chenweihao/weishop/pkg/logger"
	"gorm.io/gorm"
)

// CartService manages the per-user cart. Reads are self-healing: a line
// whose product disappeared or whose quantity outgrew the stock is
// repaired (dropped or clamped) and the repair is persisted, so the
// next read returns the same answer.
type CartService struct {
	db       *gorm.DB
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		db:       db,
		carts:    repositories.NewCartRepository(db),
		products: repositories.NewProductRepository(db),
	}
}

// Get returns the user's cart after reconciling every line against the
// current catalogue:
//
//   - product missing or soft-deleted → line dropped
//   - stock zero                      → line dropped
//   - stock below quantity            → quantity clamped to stock
//
// Repairs are written back (one cart's rows together) before returning.
func (s *CartService) Get(userID uint) (models.Cart, error) {
	cart, err := s.carts.FindOrCreate(userID)
	if err != nil {
		return models.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	var (
		keep    []models.CartItem
		drop    []uint
		clamped []models.CartItem
	)
	for _, item := range cart.Items {
		switch {
		case item.Product.ID == 0 || item.Product.IsDeleted || item.Product.Stock == 0:
			drop = append(drop, item.ID)
		case item.Product.Stock < item.Quantity:
			item.Quantity = item.Product.Stock
			clamped = append(clamped, item)
			keep = append(keep, item)
		default:
			keep = append(keep, item)
		}
	}

	if len(drop) == 0 && len(clamped) == 0 {
		return cart, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(drop) > 0 {
			if err := tx.Where("id IN ?", drop).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("drop stale cart items: %w", err)
			}
		}
		for _, item := range clamped {
			if err := tx.Model(&models.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity).Error; err != nil {
				return fmt.Errorf("clamp cart item %d: %w", item.ID, err)
			}
		}
		return s.carts.Touch(tx, cart.ID)
	})
	if err != nil {
		return models.Cart{}, err
	}

	logger.Debug("cart reconciled",
		"user_id", userID, "dropped", len(drop), "clamped", len(clamped))

	cart.Items = keep
	return cart, nil
}

// AddItem puts quantity units of a product into the cart, merging with
// an existing line for the same product. The merged quantity must not
// exceed current stock.
func (s *CartService) AddItem(userID, productID uint, quantity int) (models.Cart, error) {
	if quantity < 1 {
		return models.Cart{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	product, err := s.products.FindActive(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, &ProductUnavailableError{ProductID: productID}
		}
		return models.Cart{}, fmt.Errorf("add to cart: %w", err)
	}

	cart, err := s.carts.FindOrCreate(userID)
	if err != nil {
		return models.Cart{}, fmt.Errorf("add to cart: %w", err)
	}

	var existing *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			existing = &cart.Items[i]
			break
		}
	}

	wanted := quantity
	if existing != nil {
		wanted += existing.Quantity
	}
	if product.Stock < wanted {
		return models.Cart{}, &InsufficientStockError{
			ProductID: productID,
			Requested: wanted,
			Available: product.Stock,
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if existing != nil {
			if err := tx.Model(&models.CartItem{}).
				Where("id = ?", existing.ID).
				Update("quantity", wanted).Error; err != nil {
				return fmt.Errorf("merge cart item: %w", err)
			}
		} else {
			item := models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   nowUTC(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("create cart item: %w", err)
			}
		}
		return s.carts.Touch(tx, cart.ID)
	})
	if err != nil {
		return models.Cart{}, err
	}

	return s.Get(userID)
}

// UpdateItemQuantity sets the quantity of one cart line. Zero removes
// the line; a quantity above stock is rejected rather than clamped so
// the client can tell the user.
func (s *CartService) UpdateItemQuantity(userID, itemID uint, quantity int) (models.Cart, error) {
	if quantity < 0 {
		return models.Cart{}, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	cart, err := s.carts.FindOrCreate(userID)
	if err != nil {
		return models.Cart{}, fmt.Errorf("update cart: %w", err)
	}

	var target *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			target = &cart.Items[i]
			break
		}
	}
	if target == nil {
		return models.Cart{}, ErrNotFound
	}

	// A dead product line is removed no matter what the request said.
	if quantity == 0 || target.Product.ID == 0 || target.Product.IsDeleted {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.CartItem{}, "id = ?", target.ID).Error; err != nil {
				return fmt.Errorf("remove cart item: %w", err)
			}
			return s.carts.Touch(tx, cart.ID)
		})
		if err != nil {
			return models.Cart{}, err
		}
		return s.Get(userID)
	}

	if target.Product.Stock < quantity {
		return models.Cart{}, &InsufficientStockError{
			ProductID: target.ProductID,
			Requested: quantity,
			Available: target.Product.Stock,
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CartItem{}).
			Where("id = ?", target.ID).
			Update("quantity", quantity).Error; err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		return s.carts.Touch(tx, cart.ID)
	})
	if err != nil {
		return models.Cart{}, err
	}
	return s.Get(userID)
}

// RemoveItems deletes the given cart lines. Ids that are not in the
// user's cart are ignored, so the call is idempotent.
func (s *CartService) RemoveItems(userID uint, itemIDs []uint) (models.Cart, error) {
	if len(itemIDs) == 0 {
		return models.Cart{}, fmt.Errorf("%w: no cart items given", ErrValidation)
	}

	cart, err := s.carts.FindOrCreate(userID)
	if err != nil {
		return models.Cart{}, fmt.Errorf("remove cart items: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ? AND id IN ?", cart.ID, itemIDs).
			Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		return s.carts.Touch(tx, cart.ID)
	})
	if err != nil {
		return models.Cart{}, err
	}
	return s.Get(userID)
}

// Clear empties the cart.
func (s *CartService) Clear(userID uint) error {
	cart, err := s.carts.FindOrCreate(userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return s.carts.Touch(tx, cart.ID)
	})
}
