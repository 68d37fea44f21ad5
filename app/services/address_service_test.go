package services_test

import (
	"testing"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countDefaults(t *testing.T, svc *services.AddressService, userID uint) int {
	t.Helper()

	addresses, err := svc.List(userID)
	require.NoError(t, err)

	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestCreateDefaultDemotesPrevious(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewAddressService(db)

	first, err := svc.Create(user.ID, services.AddressInput{
		ContactName: "Receiver", PhoneNumber: "13800000000",
		Province: "Zhejiang", City: "Hangzhou",
		StreetAddress: "1 West Lake Rd", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(user.ID, services.AddressInput{
		ContactName: "Receiver", PhoneNumber: "13800000001",
		Province: "Jiangsu", City: "Nanjing",
		StreetAddress: "2 Xuanwu Lake Rd", IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	assert.Equal(t, 1, countDefaults(t, svc, user.ID))

	reloaded, err := svc.Get(first.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestSetDefaultMovesTheFlag(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	first := seedAddress(t, db, user.ID, true)
	second := seedAddress(t, db, user.ID, false)

	svc := services.NewAddressService(db)
	require.NoError(t, svc.SetDefault(second.ID, user.ID))

	assert.Equal(t, 1, countDefaults(t, svc, user.ID))

	a, err := svc.Get(second.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, a.IsDefault)

	a, err = svc.Get(first.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, a.IsDefault)

	// Setting the current default again is a no-op.
	require.NoError(t, svc.SetDefault(second.ID, user.ID))
	assert.Equal(t, 1, countDefaults(t, svc, user.ID))
}

func TestUpdateCanPromoteAndDemote(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	first := seedAddress(t, db, user.ID, true)
	second := seedAddress(t, db, user.ID, false)

	svc := services.NewAddressService(db)

	_, err := svc.Update(second.ID, user.ID, services.AddressInput{
		ContactName: "Receiver", PhoneNumber: "13800000001",
		Province: "Zhejiang", City: "Hangzhou",
		StreetAddress: "3 Hefang St", IsDefault: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaults(t, svc, user.ID))

	// Turning the flag off leaves the user with no default; nothing is
	// promoted in its place.
	_, err = svc.Update(second.ID, user.ID, services.AddressInput{
		ContactName: "Receiver", PhoneNumber: "13800000001",
		Province: "Zhejiang", City: "Hangzhou",
		StreetAddress: "3 Hefang St", IsDefault: false,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, countDefaults(t, svc, user.ID))

	a, err := svc.Get(first.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, a.IsDefault)
}

func TestDeleteClearsDefaultWithoutPromotion(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	def := seedAddress(t, db, user.ID, true)
	seedAddress(t, db, user.ID, false)

	svc := services.NewAddressService(db)
	require.NoError(t, svc.Delete(def.ID, user.ID))

	// Soft-deleted rows vanish from the list and no other address gets
	// the flag.
	addresses, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.False(t, addresses[0].IsDefault)

	var raw models.Address
	require.NoError(t, db.First(&raw, def.ID).Error)
	assert.True(t, raw.IsDeleted)
	assert.False(t, raw.IsDefault)

	_, err = svc.Get(def.ID, user.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAddressOwnershipIsEnforced(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	address := seedAddress(t, db, user.ID, true)

	svc := services.NewAddressService(db)

	_, err := svc.Get(address.ID, stranger.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = svc.SetDefault(address.ID, stranger.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = svc.Delete(address.ID, stranger.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Per-user defaults do not interfere with each other.
	mine := seedAddress(t, db, stranger.ID, true)
	require.NoError(t, svc.SetDefault(mine.ID, stranger.ID))

	a, err := svc.Get(address.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, a.IsDefault)
}

func TestListPutsDefaultFirst(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	seedAddress(t, db, user.ID, false)
	def := seedAddress(t, db, user.ID, true)
	seedAddress(t, db, user.ID, false)

	svc := services.NewAddressService(db)
	addresses, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 3)
	assert.Equal(t, def.ID, addresses[0].ID)
}
