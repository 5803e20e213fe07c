package services_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
)

var orderNumberRe = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`)

func TestPlaceFromCart(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	p1 := seedProduct(t, db, "Keyboard", 10.0, 5)
	p2 := seedProduct(t, db, "Mouse", 2.5, 4)
	seedCartItem(t, db, user.ID, p1.ID, 3)
	seedCartItem(t, db, user.ID, p2.ID, 2)

	svc := services.NewOrderService()
	summary, err := svc.Place(services.PlaceOrderInput{
		UserID:  user.ID,
		UseCart: true,
		Address: "1 Bazaar Lane",
		Phone:   "5550100",
	})
	require.NoError(t, err)

	// Total is the sum of quantity × price across lines.
	assert.Equal(t, 3*10.0+2*2.5, summary.Total)
	assert.Equal(t, 2, summary.ItemsCount)
	assert.Regexp(t, orderNumberRe, summary.OrderNumber)
	assert.Equal(t, models.OrderPending, summary.Order.Status)

	// Stock decremented atomically per line.
	var fresh1, fresh2 models.Product
	require.NoError(t, db.First(&fresh1, p1.ID).Error)
	require.NoError(t, db.First(&fresh2, p2.ID).Error)
	assert.Equal(t, 2, fresh1.Stock)
	assert.Equal(t, 2, fresh2.Stock)

	// Cart cleared on success.
	var remaining int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestPlaceSnapshotsPrices(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Lamp", 20.0, 10)
	seedCartItem(t, db, user.ID, product.ID, 1)

	svc := services.NewOrderService()
	summary, err := svc.Place(services.PlaceOrderInput{
		UserID: user.ID, UseCart: true, Address: "1 Bazaar Lane", Phone: "5550100",
	})
	require.NoError(t, err)

	// A later price change must not touch the stored order.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", 99.0).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", summary.Order.ID).First(&item).Error)
	assert.Equal(t, 20.0, item.Price)

	var stored models.Order
	require.NoError(t, db.First(&stored, summary.Order.ID).Error)
	assert.Equal(t, 20.0, stored.Total)
}

func TestPlaceEmptyCart(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	_, err := svc.Place(services.PlaceOrderInput{
		UserID: user.ID, UseCart: true, Address: "1 Bazaar Lane", Phone: "5550100",
	})
	assert.ErrorIs(t, err, services.ErrCartEmpty)
}

func TestPlaceInsufficientStockHasNoSideEffects(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Desk", 100.0, 5)
	seedCartItem(t, db, user.ID, product.ID, 6)

	svc := services.NewOrderService()
	_, err := svc.Place(services.PlaceOrderInput{
		UserID: user.ID, UseCart: true, Address: "1 Bazaar Lane", Phone: "5550100",
	})

	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Desk", stockErr.Name)
	assert.Equal(t, 5, stockErr.Available)

	// The whole transaction rolled back: stock, orders, and cart untouched.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 5, fresh.Stock)

	var orders, cartLines int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartLines)
	assert.Zero(t, orders)
	assert.EqualValues(t, 1, cartLines)
}

func TestPlaceUnavailableProduct(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := models.Product{Name: "Retired", Price: 5, Stock: 10, IsActive: false}
	require.NoError(t, db.Create(&product).Error)
	seedCartItem(t, db, user.ID, product.ID, 1)

	svc := services.NewOrderService()
	_, err := svc.Place(services.PlaceOrderInput{
		UserID: user.ID, UseCart: true, Address: "1 Bazaar Lane", Phone: "5550100",
	})

	var unavailable *services.ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "Retired", unavailable.Name)
}

func TestPlaceExplicitItemsKeepsCart(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	ordered := seedProduct(t, db, "Chair", 50.0, 3)
	parked := seedProduct(t, db, "Rug", 30.0, 3)
	seedCartItem(t, db, user.ID, parked.ID, 1)

	svc := services.NewOrderService()
	summary, err := svc.Place(services.PlaceOrderInput{
		UserID:  user.ID,
		UseCart: false,
		Items:   []services.OrderLine{{ProductID: ordered.ID, Quantity: 2}},
		Address: "1 Bazaar Lane",
		Phone:   "5550100",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Total)

	// Explicit placements leave the cart alone.
	var cartLines int64
	db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&cartLines)
	assert.EqualValues(t, 1, cartLines)
}

func TestPlaceMergesDuplicateLines(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Stool", 40.0, 5)

	svc := services.NewOrderService()

	// Two lines for the same product must be checked as one combined
	// quantity, so 3+3 against a stock of 5 is rejected, not oversold.
	_, err := svc.Place(services.PlaceOrderInput{
		UserID:  user.ID,
		UseCart: false,
		Items: []services.OrderLine{
			{ProductID: product.ID, Quantity: 3},
			{ProductID: product.ID, Quantity: 3},
		},
		Address: "1 Bazaar Lane",
		Phone:   "5550100",
	})
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	summary, err := svc.Place(services.PlaceOrderInput{
		UserID:  user.ID,
		UseCart: false,
		Items: []services.OrderLine{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 3},
		},
		Address: "1 Bazaar Lane",
		Phone:   "5550100",
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, summary.Total)
	assert.Equal(t, 1, summary.ItemsCount)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 0, fresh.Stock)
}

func TestPlaceUnknownProduct(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	_, err := svc.Place(services.PlaceOrderInput{
		UserID:  user.ID,
		UseCart: false,
		Items:   []services.OrderLine{{ProductID: 9999, Quantity: 1}},
		Address: "1 Bazaar Lane",
		Phone:   "5550100",
	})
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestPlaceLastUnit(t *testing.T) {
	db := setupDB(t)
	first := seedUser(t, db, "first@example.com")
	second := seedUser(t, db, "second@example.com")
	product := seedProduct(t, db, "Limited", 75.0, 1)
	seedCartItem(t, db, first.ID, product.ID, 1)
	seedCartItem(t, db, second.ID, product.ID, 1)

	svc := services.NewOrderService()

	_, err := svc.Place(services.PlaceOrderInput{
		UserID: first.ID, UseCart: true, Address: "1 Bazaar Lane", Phone: "5550100",
	})
	require.NoError(t, err)

	// The second buyer finds the product sold out.
	_, err = svc.Place(services.PlaceOrderInput{
		UserID: second.ID, UseCart: true, Address: "2 Bazaar Lane", Phone: "5550101",
	})
	var unavailable *services.ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 0, fresh.Stock)

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 1, orders)
}

func TestOrderNumbersAreUnique(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := seedProduct(t, db, "Pen", 1.0, 1000)

	svc := services.NewOrderService()
	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		summary, err := svc.Place(services.PlaceOrderInput{
			UserID:  user.ID,
			UseCart: false,
			Items:   []services.OrderLine{{ProductID: product.ID, Quantity: 1}},
			Address: "1 Bazaar Lane",
			Phone:   "5550100",
		})
		require.NoError(t, err)
		assert.False(t, seen[summary.OrderNumber], "duplicate order number %s", summary.OrderNumber)
		seen[summary.OrderNumber] = true
	}
}

func TestGetForUserEnforcesOwnership(t *testing.T) {
	db := setupDB(t)
	owner := seedUser(t, db, "owner@example.com")
	intruder := seedUser(t, db, "intruder@example.com")
	product := seedProduct(t, db, "Vase", 10.0, 5)
	seedCartItem(t, db, owner.ID, product.ID, 1)

	svc := services.NewOrderService()
	summary, err := svc.Place(services.PlaceOrderInput{
		UserID: owner.ID, UseCart: true, Address: "1 Bazaar Lane", Phone: "5550100",
	})
	require.NoError(t, err)

	_, err = svc.GetForUser(summary.Order.ID, intruder.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	got, err := svc.GetForUser(summary.Order.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.OrderNumber, got.OrderNumber)
}
