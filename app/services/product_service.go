package services

import (
	"errors"
	"fmt"
	"path"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

const (
	productCacheTTL    = 5 * time.Minute
	productCachePrefix = "products:"
)

// ProductService owns catalog reads and the admin CRUD surface.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{products: repositories.NewProductRepository()}
}

// List returns one page of the catalog. Pages without filters are served
// from Redis when warm.
func (s *ProductService) List(q repositories.ProductQuery) ([]models.Product, orm.Pagination, error) {
	type cached struct {
		Products   []models.Product `json:"products"`
		Pagination orm.Pagination   `json:"pagination"`
	}

	key := ""
	if q.Search == "" && q.Status == "" {
		key = fmt.Sprintf("%slist:%s:%s:%d:%d",
			productCachePrefix, q.SortBy, q.SortDir, q.Page, q.Limit)
		var hit cached
		if cache.Get(key, &hit) {
			return hit.Products, hit.Pagination, nil
		}
	}

	products, pagination, err := s.products.List(q)
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("products: list: %w", err)
	}

	if key != "" {
		cache.Set(key, cached{Products: products, Pagination: pagination}, productCacheTTL)
	}
	return products, pagination, nil
}

// Get loads one product, read-through cached.
func (s *ProductService) Get(id uint) (models.Product, error) {
	key := fmt.Sprintf("%sshow:%d", productCachePrefix, id)

	var product models.Product
	if cache.Get(key, &product) {
		return product, nil
	}

	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	cache.Set(key, product, productCacheTTL)
	return product, nil
}

// Create persists a new product (admin only, enforced at the route).
func (s *ProductService) Create(product *models.Product) error {
	if err := s.products.Create(product); err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	s.invalidate(product.ID)
	return nil
}

// Update persists changes to an existing product.
func (s *ProductService) Update(product *models.Product) error {
	if err := s.products.Update(product); err != nil {
		return fmt.Errorf("products: update: %w", err)
	}
	s.invalidate(product.ID)
	return nil
}

// Delete removes a product unless order history references it.
func (s *ProductService) Delete(id uint) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	hasOrders, err := s.products.HasOrderItems(id)
	if err != nil {
		return fmt.Errorf("products: check orders: %w", err)
	}
	if hasOrders {
		return ErrProductHasOrders
	}

	if err := s.products.Delete(&product); err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	s.invalidate(id)
	return nil
}

// AttachImage stores an uploaded image on the configured storage disk and
// records its public URL on the product.
func (s *ProductService) AttachImage(id uint, filename string, content []byte) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}

	key := fmt.Sprintf("products/%d/image%s", id, path.Ext(filename))
	if err := storage.Put(key, content); err != nil {
		return models.Product{}, fmt.Errorf("products: store image: %w", err)
	}

	product.ImageURL = storage.URL(key)
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, fmt.Errorf("products: save image url: %w", err)
	}
	s.invalidate(id)
	return product, nil
}

func (s *ProductService) invalidate(id uint) {
	cache.Forget(fmt.Sprintf("%sshow:%d", productCachePrefix, id))
	cache.DelPattern(productCachePrefix + "list:*")
}
