package repositories

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// OrderQuery carries the order listing filters.
type OrderQuery struct {
	UserID  uint   // 0 means all users (admin views)
	Status  string // "" means any
	SortBy  string // whitelisted column, default created_at
	SortDir string // "asc" | "desc", default desc
	Page    int
	Limit   int
}

var orderSortColumns = map[string]bool{
	"created_at": true,
	"total":      true,
	"status":     true,
}

func (q OrderQuery) orderExpr() string {
	col := q.SortBy
	if !orderSortColumns[col] {
		col = "created_at"
	}
	dir := "desc"
	if q.SortDir == "asc" {
		dir = "asc"
	}
	return col + " " + dir
}

// OrderRepository handles database operations for Order.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// List returns one page of orders matching the query, items preloaded.
func (r *OrderRepository) List(q OrderQuery) ([]models.Order, orm.Pagination, error) {
	query := orm.DB().Model(&models.Order{})

	if q.UserID != 0 {
		query = query.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var orders []models.Order
	pagination, err := query.
		Preload("Items").
		Preload("Items.Product").
		Order(q.orderExpr()).
		GetWithPagination(&orders, q.Page, q.Limit)
	return orders, pagination, err
}

// FindByID looks up an order with its items and products.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("id = ?", id).
		Preload("Items").
		Preload("Items.Product").
		First(&order)
	return order, err
}

// Recent returns the n most recently placed orders.
func (r *OrderRepository) Recent(n int) ([]models.Order, error) {
	var orders []models.Order
	err := orm.DB().Model(&models.Order{}).
		Order("created_at desc").
		Limit(n).
		Preload("Items").
		Get(&orders)
	return orders, err
}

// Count returns the total number of orders.
func (r *OrderRepository) Count() (int64, error) {
	return orm.DB().Model(&models.Order{}).Count()
}

// OrderNumberExists reports whether an order already uses number.
func (r *OrderRepository) OrderNumberExists(number string) (bool, error) {
	n, err := orm.DB().Model(&models.Order{}).Where("order_number = ?", number).Count()
	return n > 0, err
}

// Revenue sums the total of all non-cancelled orders.
func (r *OrderRepository) Revenue() (float64, error) {
	var out struct{ Sum float64 }
	err := orm.Gorm().Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) as sum").
		Where("status <> ?", models.OrderCancelled).
		Scan(&out).Error
	return out.Sum, err
}
