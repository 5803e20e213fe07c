package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestProductCreateRequiresAdmin(t *testing.T) {
	h, db := setupAPI(t)
	_, userToken := makeUser(t, db, "shopper@example.com", models.RoleUser)

	rec, _ := request(t, h, http.MethodPost, "/api/products", userToken, map[string]interface{}{
		"name": "Sneaky", "price": 1.0, "stock": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCreate(t *testing.T) {
	h, db := setupAPI(t)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)

	rec, env := request(t, h, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name":        "Notebook",
		"description": "A5, dotted",
		"price":       4.5,
		"stock":       100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Product created successfully", env["message"])

	data := dataMap(t, env)
	assert.Equal(t, "Notebook", data["name"])
	assert.Equal(t, true, data["is_active"]) // defaults to active
}

func TestProductCreateAllowsZeroPriceAndStock(t *testing.T) {
	h, db := setupAPI(t)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)

	rec, env := request(t, h, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"name": "Freebie", "price": 0, "stock": 0, "is_active": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := dataMap(t, env)
	assert.Equal(t, 0.0, data["price"])
	assert.Equal(t, false, data["is_active"])
}

func TestProductCreateValidation(t *testing.T) {
	h, db := setupAPI(t)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)

	rec, env := request(t, h, http.MethodPost, "/api/products", adminToken, map[string]interface{}{
		"description": "no name, no price",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Validation errors", env["message"])

	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stock")
}

func TestProductListPagination(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	for i := 0; i < 7; i++ {
		makeProduct(t, db, fmt.Sprintf("Item %d", i), 10, 5)
	}

	rec, env := request(t, h, http.MethodGet, "/api/products?per_page=3&page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := env["data"].([]interface{})
	assert.Len(t, items, 3)

	pagination := env["pagination"].(map[string]interface{})
	assert.Equal(t, 2.0, pagination["current_page"])
	assert.Equal(t, 3.0, pagination["last_page"])
	assert.Equal(t, 7.0, pagination["total"])
}

func TestProductSearch(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	makeProduct(t, db, "Walnut Desk", 100, 5)
	makeProduct(t, db, "Office Chair", 80, 5)

	rec, env := request(t, h, http.MethodGet, "/api/products?search=desk", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := env["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Walnut Desk", items[0].(map[string]interface{})["name"])
}

func TestProductShowNotFound(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)

	rec, _ := request(t, h, http.MethodGet, "/api/products/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductPartialUpdate(t *testing.T) {
	h, db := setupAPI(t)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)
	product := makeProduct(t, db, "Lamp", 20, 10)

	rec, env := request(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", product.ID), adminToken,
		map[string]interface{}{"price": 25.0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product updated successfully", env["message"])

	data := dataMap(t, env)
	assert.Equal(t, 25.0, data["price"])
	assert.Equal(t, "Lamp", data["name"]) // untouched
	assert.Equal(t, 10.0, data["stock"]) // untouched
}

func TestProductDeleteBlockedByOrders(t *testing.T) {
	h, db := setupAPI(t)
	user, _ := makeUser(t, db, "buyer@example.com", models.RoleUser)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)
	product := makeProduct(t, db, "Popular", 10, 5)

	order := models.Order{
		UserID: user.ID, OrderNumber: "ORD-20260101-ABC123", Total: 10,
		Address: "1 Bazaar Lane", Phone: "5550100", Status: models.OrderPending,
		Items: []models.OrderItem{{ProductID: product.ID, Quantity: 1, Price: 10}},
	}
	require.NoError(t, db.Create(&order).Error)

	rec, env := request(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), adminToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Cannot delete product with existing orders", env["message"])
}

func TestProductDelete(t *testing.T) {
	h, db := setupAPI(t)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)
	product := makeProduct(t, db, "Obsolete", 10, 5)

	rec, env := request(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", product.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", env["message"])

	var n int64
	db.Model(&models.Product{}).Count(&n)
	assert.Zero(t, n)
}
