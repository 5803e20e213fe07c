package seeders

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("demo_products", SeedDemoProducts)
}

// SeedAdminUser creates the initial admin account if none exists.
func SeedAdminUser(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Admin",
		Email:    "admin@bazaar.shop",
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}

// SeedDemoProducts fills an empty catalog with a handful of products.
func SeedDemoProducts(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Mechanical Keyboard", Description: "Tenkeyless, brown switches", Price: 89.99, Stock: 40, IsActive: true},
		{Name: "Wireless Mouse", Description: "Ergonomic, 2.4 GHz", Price: 24.50, Stock: 120, IsActive: true},
		{Name: "USB-C Hub", Description: "7-in-1, HDMI and PD", Price: 39.00, Stock: 60, IsActive: true},
		{Name: "Desk Lamp", Description: "Adjustable colour temperature", Price: 32.75, Stock: 25, IsActive: true},
		{Name: "Laptop Stand", Description: "Aluminium, foldable", Price: 45.00, Stock: 0, IsActive: true},
		{Name: "Legacy Dock", Description: "Discontinued model", Price: 15.00, Stock: 8, IsActive: false},
	}
	return db.Create(&products).Error
}
