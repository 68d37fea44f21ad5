package services_test

import (
	"fmt"
	"testing"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/auth"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full
// schema. cache=shared keeps it alive across the pooled connections a
// concurrent test opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// SQLite allows one writer at a time; a single pooled connection
	// serializes transactions instead of surfacing busy errors.
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user := models.User{Name: "Test User", Email: email, Password: hash, Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedAddress(t *testing.T, db *gorm.DB, userID uint, isDefault bool) models.Address {
	t.Helper()

	address := models.Address{
		UserID:        userID,
		ContactName:   "Receiver",
		PhoneNumber:   "13800000000",
		Province:      "Zhejiang",
		City:          "Hangzhou",
		StreetAddress: "1 West Lake Rd",
		IsDefault:     isDefault,
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}
