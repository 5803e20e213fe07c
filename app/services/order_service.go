package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// orderNumberAttempts bounds the uniqueness retry loop for order numbers.
const orderNumberAttempts = 5

// OrderLine is one requested product/quantity pair.
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// PlaceOrderInput is the resolved, validated input for Place.
type PlaceOrderInput struct {
	UserID  uint
	UseCart bool
	Items   []OrderLine // used when UseCart is false
	Address string
	Phone   string
}

// OrderSummary is what the API returns after a successful placement.
type OrderSummary struct {
	OrderNumber string       `json:"order_number"`
	Total       float64      `json:"total"`
	ItemsCount  int          `json:"items_count"`
	Order       models.Order `json:"order"`
}

// OrderService places and reads orders.
type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService() *OrderService {
	return &OrderService{orders: repositories.NewOrderRepository()}
}

// Place creates an order inside one database transaction: every stock check,
// the order row, its items, the stock decrements, and the cart clear commit
// together or not at all. Product rows are locked (SELECT ... FOR UPDATE) so
// two concurrent placements cannot jointly oversell.
func (s *OrderService) Place(in PlaceOrderInput) (OrderSummary, error) {
	var summary OrderSummary

	err := orm.Transaction(func(tx *gorm.DB) error {
		lines, err := s.resolveLines(tx, in)
		if err != nil {
			return err
		}

		// Lock rows in a stable order so concurrent placements with
		// overlapping products cannot deadlock.
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

		var total float64
		var items []models.OrderItem

		for _, line := range lines {
			var product models.Product
			err := orm.LockForUpdate(tx).
				First(&product, line.ProductID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return fmt.Errorf("order: lock product %d: %w", line.ProductID, err)
			}

			if !product.Available() {
				metrics.StockRejections.WithLabelValues("unavailable").Inc()
				return &ProductUnavailableError{Name: product.Name}
			}
			if product.Stock < line.Quantity {
				metrics.StockRejections.WithLabelValues("insufficient").Inc()
				return &InsufficientStockError{Name: product.Name, Available: product.Stock}
			}

			total += product.Price * float64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price, // snapshot, never recomputed
			})
		}

		number, err := s.generateOrderNumber(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			UserID:      in.UserID,
			OrderNumber: number,
			Total:       total,
			Address:     in.Address,
			Phone:       in.Phone,
			Status:      models.OrderPending,
			Items:       items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("order: create: %w", err)
		}

		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("order: decrement stock %d: %w", item.ProductID, res.Error)
			}
		}

		if in.UseCart {
			if err := tx.Where("user_id = ?", in.UserID).
				Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("order: clear cart: %w", err)
			}
		}

		if err := tx.Preload("Items").Preload("Items.Product").
			First(&order, order.ID).Error; err != nil {
			return fmt.Errorf("order: reload: %w", err)
		}

		summary = OrderSummary{
			OrderNumber: order.OrderNumber,
			Total:       order.Total,
			ItemsCount:  len(order.Items),
			Order:       order,
		}
		return nil
	})
	if err != nil {
		return OrderSummary{}, err
	}

	// Post-commit effects. None of these can undo the order.
	metrics.OrdersPlaced.Inc()
	metrics.OrderValue.Observe(summary.Total)
	event.FireAsync("order.placed", summary.Order)
	logger.Info("order placed",
		"order_number", summary.OrderNumber,
		"user_id", in.UserID,
		"total", summary.Total,
		"items", summary.ItemsCount)

	return summary, nil
}

// resolveLines turns the input into product/quantity pairs, either from the
// user's cart or from the explicit item list.
func (s *OrderService) resolveLines(tx *gorm.DB, in PlaceOrderInput) ([]OrderLine, error) {
	if !in.UseCart {
		if len(in.Items) == 0 {
			return nil, ErrCartEmpty
		}
		// Merge duplicate product lines so the stock check sees the
		// combined quantity instead of passing each line separately.
		byProduct := map[uint]int{}
		for _, it := range in.Items {
			byProduct[it.ProductID] += it.Quantity
		}
		lines := make([]OrderLine, 0, len(byProduct))
		for id, qty := range byProduct {
			lines = append(lines, OrderLine{ProductID: id, Quantity: qty})
		}
		return lines, nil
	}

	var cartItems []models.CartItem
	if err := tx.Where("user_id = ?", in.UserID).Find(&cartItems).Error; err != nil {
		return nil, fmt.Errorf("order: load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrCartEmpty
	}

	return collection.Map(cartItems, func(c models.CartItem) OrderLine {
		return OrderLine{ProductID: c.ProductID, Quantity: c.Quantity}
	}), nil
}

// generateOrderNumber builds PREFIX-YYYYMMDD-XXXXXX with a random uppercase
// hex suffix, retrying on the rare collision.
func (s *OrderService) generateOrderNumber(tx *gorm.DB) (string, error) {
	prefix := config.OrderNumberPrefix()
	date := time.Now().Format("20060102")

	for i := 0; i < orderNumberAttempts; i++ {
		suffix, err := randomSuffix()
		if err != nil {
			return "", err
		}
		number := fmt.Sprintf("%s-%s-%s", prefix, date, suffix)

		var n int64
		if err := tx.Model(&models.Order{}).
			Where("order_number = ?", number).
			Count(&n).Error; err != nil {
			return "", fmt.Errorf("order: check number: %w", err)
		}
		if n == 0 {
			return number, nil
		}
	}
	return "", fmt.Errorf("order: could not generate a unique order number after %d attempts", orderNumberAttempts)
}

func randomSuffix() (string, error) {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("order: random suffix: %w", err)
	}
	return fmt.Sprintf("%02X%02X%02X", b[0], b[1], b[2]), nil
}

// ListForUser returns one page of the user's orders.
func (s *OrderService) ListForUser(q repositories.OrderQuery) ([]models.Order, orm.Pagination, error) {
	return s.orders.List(q)
}

// GetForUser loads an order and enforces ownership.
func (s *OrderService) GetForUser(orderID, userID uint) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, ErrNotOwner
	}
	return order, nil
}
