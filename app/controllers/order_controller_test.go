package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestOrderFromCart(t *testing.T) {
	h, db := setupAPI(t)
	user, token := makeUser(t, db, "buyer@example.com", models.RoleUser)
	p1 := makeProduct(t, db, "Keyboard", 10.0, 5)
	p2 := makeProduct(t, db, "Mouse", 2.5, 4)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: p1.ID, Quantity: 3}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: p2.ID, Quantity: 2}).Error)

	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address": "1 Bazaar Lane",
		"phone":   "5550100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Order created successfully", env["message"])

	data := dataMap(t, env)
	assert.Equal(t, 35.0, data["total"])
	assert.Equal(t, 2.0, data["items_count"])
	assert.NotEmpty(t, data["order_number"])

	order := data["order"].(map[string]interface{})
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, order["items"].([]interface{}), 2)
}

func TestOrderEmptyCart(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "buyer@example.com", models.RoleUser)

	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address": "1 Bazaar Lane", "phone": "5550100",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Cart is empty", env["message"])
}

func TestOrderInsufficientStock(t *testing.T) {
	h, db := setupAPI(t)
	user, token := makeUser(t, db, "buyer@example.com", models.RoleUser)
	product := makeProduct(t, db, "Desk", 100.0, 5)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 6}).Error)

	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address": "1 Bazaar Lane", "phone": "5550100",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Insufficient stock for product 'Desk'. Available: 5", env["message"])
}

func TestOrderExplicitItems(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "buyer@example.com", models.RoleUser)
	product := makeProduct(t, db, "Chair", 50.0, 3)

	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address":  "1 Bazaar Lane",
		"phone":    "5550100",
		"use_cart": false,
		"items":    []map[string]interface{}{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 100.0, dataMap(t, env)["total"])
}

func TestOrderExplicitItemsValidation(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "buyer@example.com", models.RoleUser)

	// No items at all.
	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address": "1 Bazaar Lane", "phone": "5550100", "use_cart": false,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "items")

	// Bad line fields are reported per index.
	rec, env = request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address": "1 Bazaar Lane", "phone": "5550100", "use_cart": false,
		"items": []map[string]interface{}{{"product_id": 0, "quantity": 0}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs = env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "items.0.product_id")
	assert.Contains(t, errs, "items.0.quantity")
}

func TestOrderMissingAddress(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "buyer@example.com", models.RoleUser)

	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"phone": "5550100",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "address")
}

func TestOrderListAndShow(t *testing.T) {
	h, db := setupAPI(t)
	user, token := makeUser(t, db, "buyer@example.com", models.RoleUser)
	product := makeProduct(t, db, "Pen", 1.0, 100)
	require.NoError(t, db.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}).Error)

	rec, env := request(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"address": "1 Bazaar Lane", "phone": "5550100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := dataMap(t, env)["order"].(map[string]interface{})["id"].(float64)

	rec, env = request(t, h, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env["data"].([]interface{}), 1)

	rec, env = request(t, h, http.MethodGet, fmt.Sprintf("/api/orders/%d", int(orderID)), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, dataMap(t, env)["total"])
}

func TestOrderShowForeignOrderIsForbidden(t *testing.T) {
	h, db := setupAPI(t)
	owner, ownerToken := makeUser(t, db, "owner@example.com", models.RoleUser)
	_, intruderToken := makeUser(t, db, "intruder@example.com", models.RoleUser)
	product := makeProduct(t, db, "Vase", 10.0, 5)
	require.NoError(t, db.Create(&models.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 1}).Error)

	rec, env := request(t, h, http.MethodPost, "/api/orders", ownerToken, map[string]interface{}{
		"address": "1 Bazaar Lane", "phone": "5550100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := int(dataMap(t, env)["order"].(map[string]interface{})["id"].(float64))

	rec, env = request(t, h, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), intruderToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", env["message"])
}
