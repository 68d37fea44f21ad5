package services_test

import (
	"testing"
	"time"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreStatsExcludeCancelledOrders(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Tea Set", 68.00, 50)
	retired := seedProduct(t, db, "Retired", 5.00, 10)

	orders := services.NewOrderService(db)
	kept, err := orders.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 2},
	}, "")
	require.NoError(t, err)
	dropped, err := orders.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	}, "")
	require.NoError(t, err)
	require.NoError(t, orders.CancelOrder(dropped.ID, user.ID))
	require.NoError(t, services.NewProductService(db).SoftDelete(retired.ID))

	stats, err := services.NewStatsService(db).Core()
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.UserCount)
	assert.EqualValues(t, 1, stats.ProductCount) // soft-deleted rows don't count
	assert.EqualValues(t, 1, stats.OrderCount)
	assert.Equal(t, kept.TotalAmount, stats.TotalRevenue)
	assert.EqualValues(t, 1, stats.PendingOrders)
}

func TestLast7DaysSalesZeroFillsEmptyDays(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	address := seedAddress(t, db, user.ID, true)
	product := seedProduct(t, db, "Flask", 19.90, 50)

	orders := services.NewOrderService(db)
	placed, err := orders.PlaceOrder(user.ID, address.ID, []services.OrderLine{
		{ProductID: product.ID, Quantity: 1},
	}, "")
	require.NoError(t, err)

	// An old order outside the window must not show up.
	stale := models.Order{
		Ref:               "stale",
		UserID:            user.ID,
		OrderDate:         time.Now().UTC().AddDate(0, 0, -10),
		TotalAmount:       100,
		Status:            models.OrderStatusCompleted,
		ShippingAddressID: address.ID,
	}
	require.NoError(t, db.Create(&stale).Error)

	series, err := services.NewStatsService(db).Last7DaysSales()
	require.NoError(t, err)
	require.Len(t, series, 7)

	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, today, series[6].Date)
	assert.Equal(t, 1, series[6].Orders)
	assert.Equal(t, placed.TotalAmount, series[6].Revenue)

	for _, bucket := range series[:6] {
		assert.Zero(t, bucket.Orders)
		assert.Zero(t, bucket.Revenue)
	}
}
