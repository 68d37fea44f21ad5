package migrations

import (
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000002_create_addresses_table", &CreateAddressesTable{})
	migration.Register("20260301000003_create_carts_table", &CreateCartsTable{})
	migration.Register("20260301000004_create_orders_table", &CreateOrdersTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0003: addresses --------

type CreateAddressesTable struct{}

func (m *CreateAddressesTable) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Address{}); err != nil {
		return err
	}
	// One default per user, enforced at the database level too.
	// MySQL and SQL Server lack partial indexes, so there the invariant
	// rests on the transactional unset-then-set in the service.
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		return db.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default
			 ON addresses (user_id) WHERE is_default AND NOT is_deleted`,
		).Error
	}
	return nil
}

func (m *CreateAddressesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("addresses")
}

// -------- 0004: carts --------

type CreateCartsTable struct{}

func (m *CreateCartsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartsTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("cart_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("carts")
}

// -------- 0005: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}
