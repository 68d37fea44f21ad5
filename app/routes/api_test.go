package routes_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/routes"
	"github.com/chenweihao/weishop/pkg/auth"
	"github.com/chenweihao/weishop/pkg/router"
	"github.com/chenweihao/weishop/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAPIHandler(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Address{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	require.NoError(t, db.Create(&models.Product{
		Name: "Ceramic Tea Set", Price: 68.00, Stock: 40,
	}).Error)

	r := router.New()
	routes.RegisterAPI(r, db)
	return r.Handler(), db
}

// TestPublicAPI runs the JSON scenarios in testdata against a freshly
// seeded router.
func TestPublicAPI(t *testing.T) {
	handler, _ := newAPIHandler(t)
	testkit.RunDir(t, handler, "testdata")
}

func tokenFor(t *testing.T, db *gorm.DB, email, role string) string {
	t.Helper()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := models.User{Name: "Account", Email: email, Password: hash, Role: role}
	require.NoError(t, db.Create(&user).Error)

	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

func TestAdminRoutesEnforceRole(t *testing.T) {
	handler, db := newAPIHandler(t)
	userToken := tokenFor(t, db, "user@example.com", models.RoleUser)
	adminToken := tokenFor(t, db, "admin@example.com", models.RoleAdmin)

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, get(userToken))
	assert.Equal(t, http.StatusOK, get(adminToken))
}

func TestProtectedRoutesAcceptValidToken(t *testing.T) {
	handler, db := newAPIHandler(t)
	token := tokenFor(t, db, "user@example.com", models.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
