package models

// OrderItem is one line of an order. Price is a snapshot taken when the
// order was placed and is never recomputed from the product.
type OrderItem struct {
	Model
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  int     `gorm:"not null"       json:"quantity"`
	Price     float64 `gorm:"not null"       json:"price"`
	Product   Product `json:"product,omitempty"`
}

// Subtotal is quantity times the snapshot price.
func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}
