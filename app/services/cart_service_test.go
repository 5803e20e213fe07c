package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
)

func TestAddIsAdditive(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	product := seedProduct(t, db, "Notebook", 4.0, 10)

	svc := services.NewCartService()

	line, err := svc.Add(user.ID, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)

	// Adding the same product again merges into one line.
	line, err = svc.Add(user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	var lines int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&lines)
	assert.EqualValues(t, 1, lines)
}

func TestAddRespectsStockCeiling(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	product := seedProduct(t, db, "Notebook", 4.0, 4)

	svc := services.NewCartService()

	_, err := svc.Add(user.ID, product.ID, 3)
	require.NoError(t, err)

	// 3 already in cart + 2 more exceeds the 4 in stock.
	_, err = svc.Add(user.ID, product.ID, 2)
	var stockErr *services.CartStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	line, err := svc.Add(user.ID, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
}

func TestAddUnavailableProduct(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	product := models.Product{Name: "Retired", Price: 5, Stock: 10, IsActive: false}
	require.NoError(t, db.Create(&product).Error)

	svc := services.NewCartService()
	_, err := svc.Add(user.ID, product.ID, 1)

	var unavailable *services.ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "Retired", unavailable.Name)
}

func TestUpdateQuantityIsAbsolute(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	product := seedProduct(t, db, "Notebook", 4.0, 10)
	item := seedCartItem(t, db, user.ID, product.ID, 2)

	svc := services.NewCartService()
	line, err := svc.UpdateQuantity(user.ID, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	_, err = svc.UpdateQuantity(user.ID, item.ID, 11)
	var stockErr *services.CartStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 11, stockErr.Requested)
}

func TestCartOwnership(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")
	product := seedProduct(t, db, "Notebook", 4.0, 10)
	item := seedCartItem(t, db, owner.ID, product.ID, 2)

	svc := services.NewCartService()

	_, err := svc.UpdateQuantity(intruder.ID, item.ID, 5)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	err = svc.Remove(intruder.ID, item.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	// The line is untouched after both rejected attempts.
	var fresh models.CartItem
	require.NoError(t, db.First(&fresh, item.ID).Error)
	assert.Equal(t, 2, fresh.Quantity)
}

func TestClearReportsCount(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	for i, name := range []string{"A", "B", "C"} {
		product := seedProduct(t, db, name, float64(i+1), 10)
		seedCartItem(t, db, user.ID, product.ID, 1)
	}

	svc := services.NewCartService()
	removed, err := svc.Clear(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	cart, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
	assert.Zero(t, cart.ItemsCount)
}

func TestGetSumsSubtotals(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	p1 := seedProduct(t, db, "Keyboard", 10.0, 5)
	p2 := seedProduct(t, db, "Mouse", 2.5, 4)
	seedCartItem(t, db, user.ID, p1.ID, 2)
	seedCartItem(t, db, user.ID, p2.ID, 4)

	svc := services.NewCartService()
	cart, err := svc.Get(user.ID)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2*10.0+4*2.5, cart.Total)
	assert.Equal(t, 6, cart.ItemsCount)
}

func TestRemoveDeletesLine(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "shopper@example.com")
	product := seedProduct(t, db, "Notebook", 4.0, 10)
	item := seedCartItem(t, db, user.ID, product.ID, 2)

	svc := services.NewCartService()
	require.NoError(t, svc.Remove(user.ID, item.ID))

	err := svc.Remove(user.ID, item.ID)
	assert.ErrorIs(t, err, services.ErrCartItemNotFound)
}
