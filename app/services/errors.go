package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Controllers map these onto HTTP
// statuses; everything else surfaces as a 500.
var (
	ErrCartEmpty          = errors.New("Cart is empty")
	ErrNotOwner           = errors.New("Unauthorized")
	ErrProductNotFound    = errors.New("Product not found")
	ErrCartItemNotFound   = errors.New("Cart item not found")
	ErrOrderNotFound      = errors.New("Order not found")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrProductHasOrders   = errors.New("Cannot delete product with existing orders")
)

// ProductUnavailableError is returned when a product is inactive or out of
// stock.
type ProductUnavailableError struct {
	Name string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("Product '%s' is not available", e.Name)
}

// InsufficientStockError aborts order placement when a product cannot cover
// the requested quantity.
type InsufficientStockError struct {
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product '%s'. Available: %d",
		e.Name, e.Available)
}

// CartStockError rejects a cart mutation that would exceed current stock.
type CartStockError struct {
	Available int
	Requested int
}

func (e *CartStockError) Error() string {
	return fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d",
		e.Available, e.Requested)
}

// IsBusinessError reports whether err is a domain rule violation that should
// surface as a 422 rather than a server error.
func IsBusinessError(err error) bool {
	var unavailable *ProductUnavailableError
	var orderStock *InsufficientStockError
	var cartStock *CartStockError
	switch {
	case errors.Is(err, ErrCartEmpty),
		errors.Is(err, ErrProductHasOrders),
		errors.As(err, &unavailable),
		errors.As(err, &orderStock),
		errors.As(err, &cartStock):
		return true
	}
	return false
}
