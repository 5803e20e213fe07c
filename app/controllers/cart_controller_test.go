package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestCartAddAndGet(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	product := makeProduct(t, db, "Notebook", 4.0, 10)

	rec, env := request(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": product.ID, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Item added to cart successfully", env["message"])

	line := dataMap(t, env)
	assert.Equal(t, 3.0, line["quantity"])
	assert.Equal(t, "Notebook", line["product"].(map[string]interface{})["name"])

	rec, env = request(t, h, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := dataMap(t, env)
	assert.Equal(t, 12.0, cart["total"])
	assert.Equal(t, 3.0, cart["items_count"])
	assert.Len(t, cart["items"].([]interface{}), 1)
}

func TestCartAddUnknownProduct(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)

	rec, env := request(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": 9999, "quantity": 1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "product_id")
}

func TestCartAddBeyondStock(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	product := makeProduct(t, db, "Notebook", 4.0, 4)

	rec, _ := request(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": product.ID, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// 3 in cart + 2 more exceeds the 4 in stock.
	rec, env := request(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Insufficient stock. Available: 4, Requested: 5", env["message"])
}

func TestCartUpdateQuantity(t *testing.T) {
	h, db := setupAPI(t)
	user, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	product := makeProduct(t, db, "Notebook", 4.0, 10)

	item := models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&item).Error)

	rec, env := request(t, h, http.MethodPut, fmt.Sprintf("/api/cart/%d", item.ID), token,
		map[string]interface{}{"quantity": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart item updated successfully", env["message"])
	assert.Equal(t, 7.0, dataMap(t, env)["quantity"])
}

func TestCartForeignLineIsForbidden(t *testing.T) {
	h, db := setupAPI(t)
	owner, _ := makeUser(t, db, "owner@example.com", models.RoleUser)
	_, intruderToken := makeUser(t, db, "intruder@example.com", models.RoleUser)
	product := makeProduct(t, db, "Notebook", 4.0, 10)

	item := models.CartItem{UserID: owner.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&item).Error)

	rec, env := request(t, h, http.MethodPut, fmt.Sprintf("/api/cart/%d", item.ID), intruderToken,
		map[string]interface{}{"quantity": 5})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", env["message"])

	rec, _ = request(t, h, http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartRemove(t *testing.T) {
	h, db := setupAPI(t)
	user, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	product := makeProduct(t, db, "Notebook", 4.0, 10)

	item := models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, db.Create(&item).Error)

	rec, env := request(t, h, http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Item removed from cart successfully", env["message"])

	rec, _ = request(t, h, http.MethodDelete, fmt.Sprintf("/api/cart/%d", item.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartClear(t *testing.T) {
	h, db := setupAPI(t)
	user, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	for i := 0; i < 3; i++ {
		product := makeProduct(t, db, fmt.Sprintf("Item %d", i), 5, 10)
		require.NoError(t, db.Create(&models.CartItem{
			UserID: user.ID, ProductID: product.ID, Quantity: 1,
		}).Error)
	}

	rec, env := request(t, h, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cart cleared successfully. 3 items removed.", env["message"])
}

func TestCartQuantityValidation(t *testing.T) {
	h, db := setupAPI(t)
	_, token := makeUser(t, db, "shopper@example.com", models.RoleUser)
	product := makeProduct(t, db, "Notebook", 4.0, 10)

	rec, env := request(t, h, http.MethodPost, "/api/cart", token, map[string]interface{}{
		"product_id": product.ID, "quantity": 0,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := env["errors"].(map[string]interface{})
	assert.Contains(t, errs, "quantity")
}
