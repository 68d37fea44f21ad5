package services_test

import (
	"sync"
	"testing"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderSnapshotsPriceAndDeductsStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Canvas Tote Bag", 9.99, 3)

	svc := services.NewOrderService(db)
	order, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 2},
	}, "leave at the door")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 19.98, order.TotalAmount)
	assert.NotEmpty(t, order.Ref)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 9.99, order.Items[0].UnitPrice)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock)

	// Repricing the catalogue never touches a placed order.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", 49.99).Error)

	again, err := svc.Get(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 19.98, again.TotalAmount)
	assert.Equal(t, 9.99, again.Items[0].UnitPrice)
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	plenty := seedProduct(t, db, "Thermos Flask", 19.90, 100)
	scarce := seedProduct(t, db, "Desk Lamp", 45.00, 1)

	svc := services.NewOrderService(db)
	_, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: plenty.ID, Quantity: 5},
		{ProductID: scarce.ID, Quantity: 2},
	}, "")

	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// The first line's deduction must not have leaked out.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, plenty.ID).Error)
	assert.Equal(t, 100, reloaded.Stock)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	other := seedUser(t, db, "other@example.com")
	address := seedAddress(t, db, other.ID, true)
	product := seedProduct(t, db, "Tea Set", 68.00, 10)

	svc := services.NewOrderService(db)

	_, err := svc.PlaceOrder(user.ID, address.ID, nil, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	// Another user's address is rejected, not borrowed.
	_, err = svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	}, "")
	assert.ErrorIs(t, err, services.ErrInvalidAddress)

	mine := seedAddress(t, db, user.ID, true)

	_, err = svc.PlaceOrder(user.ID, mine.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 0},
	}, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.PlaceOrder(user.ID, mine.ID, []services.OrderLine{
		{ProductID: 9999, Quantity: 1},
	}, "")
	var unavailable *services.ProductUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestPlaceOrderRejectsDeletedProduct(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Old Stock", 5.00, 10)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("is_deleted", true).Error)

	svc := services.NewOrderService(db)
	_, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	}, "")

	var unavailable *services.ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, product.ID, unavailable.ProductID)
}

func TestConcurrentPlacementNeverOversells(t *testing.T) {
	db := newTestDB(t)
	address := seedAddress(t, db, seedUser(t, db, "buyer@example.com").ID, true)
	product := seedProduct(t, db, "Limited Run", 10.00, 5)

	var owner models.Address
	require.NoError(t, db.First(&owner, address.ID).Error)

	svc := services.NewOrderService(db)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.PlaceOrder(owner.UserID, address.ID, []services.OrderLine{
				{ProductID: product.ID, Quantity: 1},
			}, "")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var stockErr *services.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
		}
	}
	assert.Equal(t, 5, succeeded)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestCancelOrderRestoresStockExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Cutting Board", 25.50, 10)

	svc := services.NewOrderService(db)
	order, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 4},
	}, "")
	require.NoError(t, err)

	require.NoError(t, svc.CancelOrder(order.ID, user.ID))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)

	cancelled, err := svc.Get(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	// A second cancel must not restore stock again.
	err = svc.CancelOrder(order.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)
}

func TestCancelOrderOwnershipAndState(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Tote Bag", 9.99, 10)

	svc := services.NewOrderService(db)
	order, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	}, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelOrder(order.ID, stranger.ID), services.ErrNotFound)

	require.NoError(t, svc.Ship(order.ID))
	assert.ErrorIs(t, svc.CancelOrder(order.ID, user.ID), services.ErrInvalidTransition)
}

func TestStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Lamp", 45.00, 10)

	svc := services.NewOrderService(db)
	order, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	}, "")
	require.NoError(t, err)

	// Completed only follows shipped.
	assert.ErrorIs(t, svc.ConfirmReceipt(order.ID, user.ID), services.ErrInvalidTransition)

	require.NoError(t, svc.Ship(order.ID))
	assert.ErrorIs(t, svc.Ship(order.ID), services.ErrInvalidTransition)

	require.NoError(t, svc.ConfirmReceipt(order.ID, user.ID))

	final, err := svc.Get(order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, final.Status)

	// Terminal states reject everything.
	assert.ErrorIs(t, svc.AdminUpdateStatus(order.ID, models.OrderStatusCancelled), services.ErrInvalidTransition)
	assert.ErrorIs(t, svc.AdminUpdateStatus(order.ID, models.OrderStatusPaid), services.ErrInvalidTransition)
}

func TestAdminCancelRestoresStock(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Flask", 19.90, 8)

	svc := services.NewOrderService(db)
	order, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 3},
	}, "")
	require.NoError(t, err)

	require.NoError(t, svc.AdminUpdateStatus(order.ID, models.OrderStatusCancelled))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestListMineFiltersByStatusAndOwner(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	other := seedUser(t, db, "other@example.com")
	address := seedAddress(t, db, user.ID, true)
	otherAddress := seedAddress(t, db, other.ID, true)
	product := seedProduct(t, db, "Tea Set", 68.00, 50)

	svc := services.NewOrderService(db)
	mine, err := svc.PlaceOrder(user.ID, address.ID, []services.OrderLine{{ProductID: product.ID, Quantity: 1}}, "")
	require.NoError(t, err)
	_, err = svc.PlaceOrder(other.ID, otherAddress.ID, []services.OrderLine{{ProductID: product.ID, Quantity: 1}}, "")
	require.NoError(t, err)
	require.NoError(t, svc.Ship(mine.ID))

	orders, page, err := svc.ListMine(user.ID, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.EqualValues(t, 1, page.TotalCount)

	shipped, _, err := svc.ListMine(user.ID, models.OrderStatusShipped, 1, 10)
	require.NoError(t, err)
	assert.Len(t, shipped, 1)

	paid, _, err := svc.ListMine(user.ID, models.OrderStatusPaid, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, paid)
}
