package services_test

import (
	"testing"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/services"
	"github.com/chenweihao/weishop/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)

	user, err := svc.Register("Wei", "  Wei@Example.COM ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "wei@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "secret123"))

	// Duplicate emails collide regardless of casing.
	_, err = svc.Register("Other", "WEI@example.com", "different")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginIssuesTokens(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)
	seeded := seedUser(t, db, "wei@example.com")

	user, pair, err := svc.Login("wei@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)
	seedUser(t, db, "wei@example.com")

	_, _, err := svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrBadCredentials)

	_, _, err = svc.Login("wei@example.com", "wrong-password")
	assert.ErrorIs(t, err, services.ErrBadCredentials)
}

func TestLockedAccountCannotLoginOrRefresh(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)
	user := seedUser(t, db, "wei@example.com")

	_, pair, err := svc.Login("wei@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("is_locked", true).Error)

	_, _, err = svc.Login("wei@example.com", "secret123")
	assert.ErrorIs(t, err, services.ErrAccountLocked)

	// Lock takes effect on refresh even with a still-valid token.
	_, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrAccountLocked)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)
	user := seedUser(t, db, "wei@example.com")

	_, pair, err := svc.Login("wei@example.com", "secret123")
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)

	claims, err := auth.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, services.ErrBadCredentials)
}

func TestProfile(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(db)
	user := seedUser(t, db, "wei@example.com")

	profile, err := svc.Profile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = svc.Profile(9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestAdminUserManagement(t *testing.T) {
	db := newTestDB(t)
	users := services.NewUserService(db)
	user := seedUser(t, db, "wei@example.com")

	require.NoError(t, users.Lock(user.ID))
	locked, err := users.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	// Locking twice is harmless.
	require.NoError(t, users.Lock(user.ID))

	require.NoError(t, users.Unlock(user.ID))
	unlocked, err := users.Get(user.ID)
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)

	err = users.ResetPassword(user.ID, "short")
	assert.ErrorIs(t, err, services.ErrValidation)

	require.NoError(t, users.ResetPassword(user.ID, "brand-new-pass"))
	reloaded, err := users.Get(user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(reloaded.Password, "brand-new-pass"))

	listed, pagination, err := users.List(1, 10, "wei")
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.EqualValues(t, 1, pagination.TotalCount)
}
