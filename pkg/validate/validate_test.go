package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderInput struct {
	Address string  `json:"address" validate:"required,max=10"`
	Phone   string  `json:"phone"   validate:"required,max=5"`
	Email   string  `json:"email"   validate:"nullable,email"`
	Qty     int     `json:"quantity" validate:"required,integer,gte=1"`
	Price   float64 `json:"price"   validate:"nullable,numeric,gte=0"`
	Status  string  `json:"status"  validate:"nullable,in=pending,shipped"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(orderInput{
		Address: "12 High St",
		Phone:   "12345",
		Qty:     2,
		Status:  "pending",
	})
	assert.False(t, HasErrors(errs), "expected no errors, got %v", errs)
}

func TestRequiredFields(t *testing.T) {
	errs := Struct(orderInput{Qty: 1})

	assert.Contains(t, errs, "address")
	assert.Contains(t, errs, "phone")
	assert.NotContains(t, errs, "email") // nullable + empty
}

func TestMaxLength(t *testing.T) {
	errs := Struct(orderInput{
		Address: "this address is far too long",
		Phone:   "123456789",
		Qty:     1,
	})

	assert.Contains(t, errs["address"], "may not be greater than 10")
	assert.Contains(t, errs["phone"], "may not be greater than 5")
}

func TestNumericBounds(t *testing.T) {
	errs := Struct(orderInput{Address: "a", Phone: "1", Qty: 0})
	// Qty 0 fails `required` before gte is reached.
	assert.Contains(t, errs, "quantity")

	errs = Struct(orderInput{Address: "a", Phone: "1", Qty: 3, Price: -1})
	assert.Contains(t, errs, "price")
}

func TestInRule(t *testing.T) {
	errs := Struct(orderInput{Address: "a", Phone: "1", Qty: 1, Status: "bogus"})
	assert.Equal(t, "The selected status is invalid.", errs["status"])
}

func TestEmailRule(t *testing.T) {
	errs := Struct(orderInput{Address: "a", Phone: "1", Qty: 1, Email: "not-an-email"})
	assert.Contains(t, errs, "email")

	errs = Struct(orderInput{Address: "a", Phone: "1", Qty: 1, Email: "shop@example.com"})
	assert.NotContains(t, errs, "email")
}

func TestPointerFields(t *testing.T) {
	type s struct {
		Price *float64 `json:"price" validate:"required,numeric,gte=0"`
		Stock *int     `json:"stock" validate:"nullable,integer,gte=0"`
	}

	// Absent pointer fails required; nullable pointer is skipped.
	errs := Struct(s{})
	assert.Contains(t, errs, "price")
	assert.NotContains(t, errs, "stock")

	// A pointer to zero is present, not empty.
	zero := 0.0
	assert.False(t, HasErrors(Struct(s{Price: &zero})))

	neg := -1.0
	errs = Struct(s{Price: &neg})
	assert.Contains(t, errs, "price")
}

func TestInRuleKeepsCommaParams(t *testing.T) {
	type s struct {
		Role string `json:"role" validate:"in=user,admin,max=50"`
	}
	assert.False(t, HasErrors(Struct(s{Role: "admin"})))
	assert.True(t, HasErrors(Struct(s{Role: "superuser"})))
}
