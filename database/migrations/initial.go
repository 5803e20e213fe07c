package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000002_create_cart_items_table", &CreateCartItemsTable{})
	migration.Register("20260101000003_create_orders_table", &CreateOrdersTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: cart_items --------

type CreateCartItemsTable struct{}

func (m *CreateCartItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartItem{})
}

func (m *CreateCartItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items")
}

// -------- 0003: orders + order_items --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}
