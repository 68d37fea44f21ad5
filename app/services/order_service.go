package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/chenweihao/weishop/app/events"
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/repositories"
	"github.com/chenweihao/weishop/pkg/metrics"
	"github.com/chenweihao/weishop/pkg/orm"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderLine is one (product, quantity) pair of a checkout request.
type OrderLine struct {
	ProductID uint
	Quantity  int
}

// OrderService owns the order lifecycle: placement, cancellation and
// the status transitions. Every multi-row mutation runs inside a single
// gorm transaction with the product rows locked, so stock checks
// serialize across concurrent requests and either everything commits or
// nothing does.
type OrderService struct {
	db        *gorm.DB
	orders    *repositories.OrderRepository
	addresses *repositories.AddressRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:        db,
		orders:    repositories.NewOrderRepository(db),
		addresses: repositories.NewAddressRepository(db),
	}
}

// PlaceOrder validates the request, deducts stock and persists the
// order with its items as one atomic unit.
//
// Validation order, first violation wins: non-empty items, address owned
// by the user and not deleted, then per line item in input order:
// product on sale, stock sufficient. The per-item checks run again on
// the locked rows inside the transaction, so a concurrent sale between
// the HTTP check and the write cannot oversell.
//
// Unit prices are snapshotted into the order items at this moment;
// later catalogue price changes never alter a placed order.
func (s *OrderService) PlaceOrder(userID, shippingAddressID uint, lines []OrderLine, notes string) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return models.Order{}, fmt.Errorf("%w: quantity for product %d must be at least 1", ErrValidation, line.ProductID)
		}
	}

	address, err := s.addresses.FindOwned(shippingAddressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrInvalidAddress
		}
		return models.Order{}, fmt.Errorf("place order: load address: %w", err)
	}

	var order models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var (
			total float64
			items []models.OrderItem
		)

		for _, line := range lines {
			// Lock the product row for the rest of the transaction.
			// Concurrent PlaceOrder calls for the same product queue up
			// here, so the stock check below reads a settled value.
			var product models.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", line.ProductID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductUnavailableError{ProductID: line.ProductID}
			}
			if err != nil {
				return fmt.Errorf("lock product %d: %w", line.ProductID, err)
			}
			if product.IsDeleted {
				return &ProductUnavailableError{ProductID: line.ProductID}
			}

			if product.Stock < line.Quantity {
				metrics.OversellRejections.Inc()
				return &InsufficientStockError{
					ProductID: product.ID,
					Requested: line.Quantity,
					Available: product.Stock,
				}
			}

			product.Stock -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return fmt.Errorf("deduct stock for product %d: %w", product.ID, err)
			}

			total += product.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
		}

		order = models.Order{
			Ref:               newOrderRef(),
			UserID:            userID,
			OrderDate:         time.Now().UTC(),
			TotalAmount:       total,
			Status:            models.OrderStatusPaid,
			ShippingAddressID: address.ID,
			Notes:             notes,
			Items:             items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	events.FireOrderPlaced(order)

	// Reload so the response carries the associations.
	placed, err := s.orders.FindOwned(order.ID, userID)
	if err != nil {
		return order, nil
	}
	return placed, nil
}

// CancelOrder is the compensating transaction: restore stock for every
// line item whose product still exists, then mark the order cancelled.
// Only the owner may cancel, and only from the paid state.
func (s *OrderService) CancelOrder(orderID, userID uint) error {
	order, err := s.orders.FindOwned(orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("cancel order: %w", err)
	}
	if order.Status != models.OrderStatusPaid {
		return ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.restoreStockAndCancel(tx, &order); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.OrdersCancelled.Inc()
	events.FireOrderCancelled(order)
	return nil
}

// restoreStockAndCancel runs inside a transaction. The status flip is
// guarded on the current status so a concurrent ship or second cancel
// loses the race cleanly instead of double-restoring stock.
func (s *OrderService) restoreStockAndCancel(tx *gorm.DB, order *models.Order) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusPaid).
		Update("status", models.OrderStatusCancelled)
	if res.Error != nil {
		return fmt.Errorf("mark order %d cancelled: %w", order.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d left the paid state", ErrConcurrency, order.ID)
	}

	for _, item := range order.Items {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Product rows are only ever soft-deleted, but skip hard-gone
			// rows too: the order itself is the historical record.
			continue
		}
		if err != nil {
			return fmt.Errorf("lock product %d: %w", item.ProductID, err)
		}

		product.Stock += item.Quantity
		if err := tx.Save(&product).Error; err != nil {
			return fmt.Errorf("restore stock for product %d: %w", product.ID, err)
		}
	}

	order.Status = models.OrderStatusCancelled
	return nil
}

// Ship moves a paid order out for delivery. Admin operation.
func (s *OrderService) Ship(orderID uint) error {
	return s.transition(orderID, models.OrderStatusPaid, models.OrderStatusShipped)
}

// ConfirmReceipt completes a shipped order. Only the owner may confirm.
func (s *OrderService) ConfirmReceipt(orderID, userID uint) error {
	var order models.Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("confirm receipt: %w", err)
	}
	return s.transition(orderID, models.OrderStatusShipped, models.OrderStatusCompleted)
}

// AdminUpdateStatus applies an admin status change. Cancellation from
// the admin panel restores stock exactly like a user cancellation.
func (s *OrderService) AdminUpdateStatus(orderID uint, next models.OrderStatus) error {
	switch next {
	case models.OrderStatusShipped:
		return s.Ship(orderID)
	case models.OrderStatusCompleted:
		return s.transition(orderID, models.OrderStatusShipped, models.OrderStatusCompleted)
	case models.OrderStatusCancelled:
		return s.adminCancel(orderID)
	default:
		return fmt.Errorf("%w: cannot move an order back to %q", ErrInvalidTransition, next)
	}
}

func (s *OrderService) adminCancel(orderID uint) error {
	order, err := s.orders.Find(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("cancel order: %w", err)
	}
	if order.Status != models.OrderStatusPaid {
		return ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.restoreStockAndCancel(tx, &order)
	})
	if err != nil {
		return err
	}

	metrics.OrdersCancelled.Inc()
	events.FireOrderCancelled(order)
	return nil
}

// transition flips status from → to with a guarded update: the WHERE
// clause re-checks the current status, so a row that moved on since it
// was read is left untouched.
func (s *OrderService) transition(orderID uint, from, to models.OrderStatus) error {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("order %d: %s -> %s: %w", orderID, from, to, res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&n).Error; err == nil && n == 0 {
			return ErrNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

// Get returns an order scoped to its owner.
func (s *OrderService) Get(orderID, userID uint) (models.Order, error) {
	order, err := s.orders.FindOwned(orderID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

// AdminGet returns any order. Admin use.
func (s *OrderService) AdminGet(orderID uint) (models.Order, error) {
	order, err := s.orders.Find(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

// ListMine returns the user's order page, optionally filtered by status.
func (s *OrderService) ListMine(userID uint, status models.OrderStatus, page, size int) ([]models.Order, orm.Pagination, error) {
	return s.orders.ListByUser(userID, status, page, size)
}

// AdminList returns all orders, optionally filtered by status.
func (s *OrderService) AdminList(status models.OrderStatus, page, size int) ([]models.Order, orm.Pagination, error) {
	return s.orders.AdminList(status, page, size)
}

// newOrderRef builds the human-facing order reference shown in the
// admin panel and the mini-program order list.
func newOrderRef() string {
	return time.Now().UTC().Format("20060102150405") + "-" + uuid.NewString()
}
