package models

// Order status lifecycle. Orders are created pending; only the status may
// change afterwards.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderStatuses lists every valid status value, for validation.
var OrderStatuses = []string{
	OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled,
}

// Order is a placed order with its snapshot line items.
type Order struct {
	Model
	UserID      uint        `gorm:"not null;index"                json:"user_id"`
	OrderNumber string      `gorm:"size:64;uniqueIndex;not null"  json:"order_number"`
	Total       float64     `gorm:"not null"                      json:"total"`
	Address     string      `gorm:"size:500;not null"             json:"address"`
	Phone       string      `gorm:"size:20;not null"              json:"phone"`
	Status      string      `gorm:"size:50;default:pending;index" json:"status"`
	Items       []OrderItem `json:"items,omitempty"`
}
