package models

// CartItem is one line in a user's cart. A user can hold at most one line
// per product; adding the same product again increases the quantity.
type CartItem struct {
	Model
	UserID    uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int     `gorm:"not null"                                   json:"quantity"`
	Product   Product `json:"product,omitempty"`
}

// Subtotal is the line total at the product's current price.
func (c CartItem) Subtotal() float64 {
	return float64(c.Quantity) * c.Product.Price
}
