package repositories

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// ProductQuery carries the catalog listing filters.
type ProductQuery struct {
	Search  string // substring match over name and description
	Status  string // "" | "active" | "in_stock" | "out_of_stock"
	SortBy  string // whitelisted column, default created_at
	SortDir string // "asc" | "desc", default desc
	Page    int
	Limit   int
}

// productSortColumns is the whitelist of sortable columns. Anything else
// falls back to created_at so raw request input never reaches ORDER BY.
var productSortColumns = map[string]bool{
	"name":       true,
	"price":      true,
	"stock":      true,
	"created_at": true,
}

func (q ProductQuery) orderExpr() string {
	col := q.SortBy
	if !productSortColumns[col] {
		col = "created_at"
	}
	dir := "desc"
	if q.SortDir == "asc" {
		dir = "asc"
	}
	return col + " " + dir
}

// ProductRepository handles database operations for Product.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// List returns one page of the catalog matching the query.
func (r *ProductRepository) List(q ProductQuery) ([]models.Product, orm.Pagination, error) {
	query := orm.DB().Model(&models.Product{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	switch q.Status {
	case "active":
		query = query.Where("is_active = ?", true)
	case "in_stock":
		query = query.Where("stock > ?", 0)
	case "out_of_stock":
		query = query.Where("stock = ?", 0)
	}

	var products []models.Product
	pagination, err := query.Order(q.orderExpr()).GetWithPagination(&products, q.Page, q.Limit)
	return products, pagination, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.DB().Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return orm.DB().Save(product)
}

// Delete removes a product.
func (r *ProductRepository) Delete(product *models.Product) error {
	return orm.DB().Delete(product)
}

// HasOrderItems reports whether any order line references the product.
func (r *ProductRepository) HasOrderItems(productID uint) (bool, error) {
	n, err := orm.DB().Model(&models.OrderItem{}).Where("product_id = ?", productID).Count()
	return n > 0, err
}

// Count returns the total number of products.
func (r *ProductRepository) Count() (int64, error) {
	return orm.DB().Model(&models.Product{}).Count()
}
