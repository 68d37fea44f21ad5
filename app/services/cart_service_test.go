package services_test

import (
	"testing"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesLines(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Tote Bag", 9.99, 10)

	svc := services.NewCartService(db)

	cart, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Same product again merges into the existing line.
	cart, err = svc.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemRejectsOverStockMerge(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Lamp", 45.00, 4)

	svc := services.NewCartService(db)
	_, err := svc.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)

	_, err = svc.AddItem(user.ID, product.ID, 2)
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 4, stockErr.Available)

	// The failed merge must not have changed the line.
	cart, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestAddItemRejectsUnknownAndDeletedProducts(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Retired", 5.00, 10)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("is_deleted", true).Error)

	svc := services.NewCartService(db)

	var unavailable *services.ProductUnavailableError
	_, err := svc.AddItem(user.ID, 9999, 1)
	assert.ErrorAs(t, err, &unavailable)

	_, err = svc.AddItem(user.ID, product.ID, 1)
	assert.ErrorAs(t, err, &unavailable)

	_, err = svc.AddItem(user.ID, product.ID, 0)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetClampsAndPersistsOverstockedLines(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Flask", 19.90, 10)

	svc := services.NewCartService(db)
	_, err := svc.AddItem(user.ID, product.ID, 8)
	require.NoError(t, err)

	// Stock drops below the cart quantity behind the user's back.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("stock", 3).Error)

	cart, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// The clamp is written back, not recomputed per read.
	var stored models.CartItem
	require.NoError(t, db.First(&stored, cart.Items[0].ID).Error)
	assert.Equal(t, 3, stored.Quantity)
}

func TestGetDropsDeadAndOutOfStockLines(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	gone := seedProduct(t, db, "Discontinued", 5.00, 10)
	empty := seedProduct(t, db, "Sold Out", 7.00, 10)
	fine := seedProduct(t, db, "Tea Set", 68.00, 10)

	svc := services.NewCartService(db)
	for _, p := range []models.Product{gone, empty, fine} {
		_, err := svc.AddItem(user.ID, p.ID, 1)
		require.NoError(t, err)
	}

	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", gone.ID).Update("is_deleted", true).Error)
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", empty.ID).Update("stock", 0).Error)

	cart, err := svc.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, fine.ID, cart.Items[0].ProductID)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("cart_id = ?", cart.ID).Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)
}

func TestUpdateItemQuantity(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Cutting Board", 25.50, 5)

	svc := services.NewCartService(db)
	cart, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateItemQuantity(user.ID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	// Above stock is rejected, not clamped.
	_, err = svc.UpdateItemQuantity(user.ID, itemID, 6)
	var stockErr *services.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)

	_, err = svc.UpdateItemQuantity(user.ID, itemID, -1)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateItemQuantity(user.ID, 9999, 1)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Zero removes the line.
	cart, err = svc.UpdateItemQuantity(user.ID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestRemoveItemsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	first := seedProduct(t, db, "Tote Bag", 9.99, 10)
	second := seedProduct(t, db, "Lamp", 45.00, 10)

	svc := services.NewCartService(db)
	_, err := svc.AddItem(user.ID, first.ID, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(user.ID, second.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	ids := []uint{cart.Items[0].ID, 9999}
	cart, err = svc.RemoveItems(user.ID, ids)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	// Removing the same ids again is a no-op, not an error.
	cart, err = svc.RemoveItems(user.ID, ids)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	_, err = svc.RemoveItems(user.ID, nil)
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestClearEmptiesCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Flask", 19.90, 10)

	svc := services.NewCartService(db)
	_, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(user.ID))

	cart, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	product := seedProduct(t, db, "Tea Set", 68.00, 10)

	svc := services.NewCartService(db)
	_, err := svc.AddItem(alice.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Get(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
