package services_test

import (
	"testing"

	"github.com/chenweihao/weishop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftDeleteHidesFromCatalog(t *testing.T) {
	db := newTestDB(t)
	kept := seedProduct(t, db, "Tea Set", 68.00, 40)
	pulled := seedProduct(t, db, "Desk Lamp", 45.00, 75)

	svc := services.NewProductService(db)
	require.NoError(t, svc.SoftDelete(pulled.ID))

	products, pagination, err := svc.Catalog(1, 10, "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, kept.ID, products[0].ID)
	assert.EqualValues(t, 1, pagination.TotalCount)

	_, err = svc.GetActive(pulled.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// The row itself survives and stays visible to the back office.
	admin, err := svc.AdminGet(pulled.ID)
	require.NoError(t, err)
	assert.True(t, admin.IsDeleted)

	all, _, err := svc.AdminList(1, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRestorePutsProductBackOnSale(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "Thermos Flask", 19.90, 200)

	svc := services.NewProductService(db)
	require.NoError(t, svc.SoftDelete(product.ID))
	require.NoError(t, svc.Restore(product.ID))

	active, err := svc.GetActive(product.ID)
	require.NoError(t, err)
	assert.False(t, active.IsDeleted)

	// Flagging an already-restored product again is a no-op.
	require.NoError(t, svc.Restore(product.ID))
}

func TestCreateAndUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewProductService(db)

	_, err := svc.Create(services.ProductInput{Name: "  ", Price: 1})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Create(services.ProductInput{Name: "Bad Price", Price: -1})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.Create(services.ProductInput{Name: "Bad Stock", Price: 1, Stock: -5})
	assert.ErrorIs(t, err, services.ErrValidation)

	created, err := svc.Create(services.ProductInput{
		Name: "Canvas Tote Bag", Description: "Heavy cotton", Price: 9.99, Stock: 350,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := svc.Update(created.ID, services.ProductInput{
		Name: "Canvas Tote Bag", Price: 12.50, Stock: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 12.50, updated.Price)
	assert.Equal(t, 300, updated.Stock)

	_, err = svc.Update(9999, services.ProductInput{Name: "Ghost", Price: 1})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCatalogSearchFiltersByName(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "Ceramic Tea Set", 68.00, 40)
	seedProduct(t, db, "Bamboo Cutting Board", 25.50, 120)

	svc := services.NewProductService(db)
	products, _, err := svc.Catalog(1, 10, "tea")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Ceramic Tea Set", products[0].Name)
}
