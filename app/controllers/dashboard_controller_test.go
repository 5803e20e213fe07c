package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
)

func TestDashboardRequiresAdmin(t *testing.T) {
	h, db := setupAPI(t)
	_, userToken := makeUser(t, db, "shopper@example.com", models.RoleUser)

	rec, _ := request(t, h, http.MethodGet, "/api/dashboard/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardStats(t *testing.T) {
	h, db := setupAPI(t)
	user, _ := makeUser(t, db, "buyer@example.com", models.RoleUser)
	_, adminToken := makeUser(t, db, "admin@example.com", models.RoleAdmin)
	product := makeProduct(t, db, "Pen", 1.0, 100)

	order := models.Order{
		UserID: user.ID, OrderNumber: "ORD-20260101-FEED01", Total: 42,
		Address: "1 Bazaar Lane", Phone: "5550100", Status: models.OrderPending,
		Items: []models.OrderItem{{ProductID: product.ID, Quantity: 2, Price: 21}},
	}
	require.NoError(t, db.Create(&order).Error)

	rec, env := request(t, h, http.MethodGet, "/api/dashboard/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataMap(t, env)
	assert.Equal(t, 1.0, data["total_products"])
	assert.Equal(t, 1.0, data["total_orders"])
	assert.Equal(t, 2.0, data["total_users"])
	assert.Equal(t, 42.0, data["revenue"])
	assert.Len(t, data["recent_orders"].([]interface{}), 1)
}
