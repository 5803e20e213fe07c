package services_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/database"
)

// setupDB points the shared connection at a fresh sqlite database for one
// test and migrates the full schema.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bazaar_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	database.DB = db
	t.Cleanup(func() { database.DB = nil })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, Stock: stock, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCartItem(t *testing.T, db *gorm.DB, userID, productID uint, qty int) models.CartItem {
	t.Helper()
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, db.Create(&item).Error)
	return item
}
