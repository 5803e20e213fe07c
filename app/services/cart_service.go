package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
)

// Cart is the read model returned by Get.
type Cart struct {
	Items      []models.CartItem `json:"items"`
	Total      float64           `json:"total"`
	ItemsCount int               `json:"items_count"`
}

// CartService mutates and reads the per-user cart.
type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
}

func NewCartService() *CartService {
	return &CartService{
		carts:    repositories.NewCartRepository(),
		products: repositories.NewProductRepository(),
	}
}

// Get returns the user's cart with line subtotals summed at current prices.
func (s *CartService) Get(userID uint) (Cart, error) {
	items, err := s.carts.ItemsForUser(userID)
	if err != nil {
		return Cart{}, fmt.Errorf("cart: load: %w", err)
	}
	if items == nil {
		items = []models.CartItem{}
	}

	return Cart{
		Items: items,
		Total: collection.Sum(items, func(c models.CartItem) float64 {
			return c.Subtotal()
		}),
		ItemsCount: int(collection.Sum(items, func(c models.CartItem) float64 {
			return float64(c.Quantity)
		})),
	}, nil
}

// Add puts quantity units of a product into the cart. Adding a product that
// is already in the cart is additive; the combined quantity must still fit
// within current stock.
func (s *CartService) Add(userID, productID uint, quantity int) (models.CartItem, error) {
	product, err := s.products.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, ErrProductNotFound
		}
		return models.CartItem{}, err
	}

	if !product.Available() {
		return models.CartItem{}, &ProductUnavailableError{Name: product.Name}
	}

	line, err := s.carts.FindLine(userID, productID)
	switch {
	case err == nil:
		newQuantity := line.Quantity + quantity
		if product.Stock < newQuantity {
			return models.CartItem{}, &CartStockError{Available: product.Stock, Requested: newQuantity}
		}
		if err := s.carts.UpdateQuantity(line.ID, newQuantity); err != nil {
			return models.CartItem{}, fmt.Errorf("cart: update line: %w", err)
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if product.Stock < quantity {
			return models.CartItem{}, &CartStockError{Available: product.Stock, Requested: quantity}
		}
		line = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
		if err := s.carts.Create(&line); err != nil {
			return models.CartItem{}, fmt.Errorf("cart: create line: %w", err)
		}

	default:
		return models.CartItem{}, err
	}

	return s.carts.FindByID(line.ID)
}

// UpdateQuantity sets an absolute quantity on a cart line the user owns.
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity int) (models.CartItem, error) {
	line, err := s.carts.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, ErrCartItemNotFound
		}
		return models.CartItem{}, err
	}
	if line.UserID != userID {
		return models.CartItem{}, ErrNotOwner
	}

	if line.Product.Stock < quantity {
		return models.CartItem{}, &CartStockError{Available: line.Product.Stock, Requested: quantity}
	}

	if err := s.carts.UpdateQuantity(line.ID, quantity); err != nil {
		return models.CartItem{}, fmt.Errorf("cart: update line: %w", err)
	}
	return s.carts.FindByID(line.ID)
}

// Remove deletes a cart line the user owns.
func (s *CartService) Remove(userID, itemID uint) error {
	line, err := s.carts.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if line.UserID != userID {
		return ErrNotOwner
	}
	return s.carts.Delete(&line)
}

// Clear empties the user's cart and reports how many lines were removed.
func (s *CartService) Clear(userID uint) (int64, error) {
	return s.carts.ClearForUser(userID)
}

// PruneStale drops cart lines untouched for longer than maxAge. Run on a
// schedule so abandoned carts stop pinning stock expectations.
func (s *CartService) PruneStale(maxAge time.Duration) (int64, error) {
	return s.carts.DeleteStale(time.Now().Add(-maxAge))
}
