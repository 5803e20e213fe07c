package models

// Product represents a product in the catalogue.
type Product struct {
	Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text"               json:"description"`
	Price       float64 `gorm:"not null;default:0"      json:"price"`
	Stock       int     `gorm:"not null;default:0"      json:"stock"`
	IsActive    bool    `gorm:"not null"                json:"is_active"`
	ImageURL    string  `gorm:"size:1024"               json:"image_url,omitempty"`
}

// Available reports whether the product can be sold at all: it must be
// active and have at least one unit in stock.
func (p Product) Available() bool {
	return p.IsActive && p.Stock > 0
}
