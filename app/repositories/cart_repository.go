package repositories

import (
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// CartRepository handles database operations for CartItem.
type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// ItemsForUser returns all cart lines for a user with products preloaded.
func (r *CartRepository) ItemsForUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := orm.DB().Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at asc").
		Get(&items)
	return items, err
}

// FindByID looks up a cart line by primary key with its product.
func (r *CartRepository) FindByID(id uint) (models.CartItem, error) {
	var item models.CartItem
	err := orm.DB().Model(&models.CartItem{}).
		Where("id = ?", id).
		Preload("Product").
		First(&item)
	return item, err
}

// FindLine returns the user's existing line for a product, if any.
func (r *CartRepository) FindLine(userID, productID uint) (models.CartItem, error) {
	var item models.CartItem
	err := orm.DB().Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item)
	return item, err
}

// Create persists a new cart line.
func (r *CartRepository) Create(item *models.CartItem) error {
	return orm.DB().Create(item)
}

// UpdateQuantity sets the quantity column on a cart line.
func (r *CartRepository) UpdateQuantity(itemID uint, quantity int) error {
	return database.DB.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// Delete removes a cart line.
func (r *CartRepository) Delete(item *models.CartItem) error {
	return orm.DB().Delete(item)
}

// ClearForUser deletes every cart line for the user and returns how many
// lines were removed.
func (r *CartRepository) ClearForUser(userID uint) (int64, error) {
	res := database.DB.Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteStale removes cart lines not touched since before, returning how
// many were pruned.
func (r *CartRepository) DeleteStale(before time.Time) (int64, error) {
	res := database.DB.Where("updated_at < ?", before).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
