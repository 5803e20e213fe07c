package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/resource"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// maxImageBytes caps product image uploads at 5 MB.
const maxImageBytes = 5 << 20

// ProductController serves the catalog and the admin CRUD surface.
type ProductController struct {
	products *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{products: services.NewProductService()}
}

// productResource is the catalog representation of a product. It mirrors the
// model's JSON shape and adds the computed availability flag.
func productResource(p models.Product) resource.Map {
	out := resource.Map{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"is_active":   p.IsActive,
		"available":   p.Available(),
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	}
	if p.ImageURL != "" {
		out["image_url"] = p.ImageURL
	}
	return out
}

// Index lists products with search, status filter, sorting, and pagination.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	products, pagination, err := c.products.List(repositories.ProductQuery{
		Search:  q.Get("search"),
		Status:  q.Get("status"),
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_order"),
		Page:    queryInt(r, "page", 1),
		Limit:   queryInt(r, "per_page", 15),
	})
	if err != nil {
		response.ServerError(w, "")
		return
	}
	resource.Page(w, products, productResource, pagination)
}

// Show returns one product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.NotFound(w)
			return
		}
		response.ServerError(w, "")
		return
	}
	resource.One(w, product, productResource)
}

// Price and stock are pointers so an explicit 0 still satisfies required.
type createProductRequest struct {
	Name        string   `json:"name"        validate:"required,max=255"`
	Description string   `json:"description" validate:"nullable"`
	Price       *float64 `json:"price"       validate:"required,numeric,gte=0"`
	Stock       *int     `json:"stock"       validate:"required,integer,gte=0"`
	IsActive    *bool    `json:"is_active"   validate:"nullable,boolean"`
}

// Store creates a product. Admin only, enforced at the route.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := c.products.Create(&product); err != nil {
		response.ServerError(w, "")
		return
	}
	response.Created(w, "Product created successfully", product)
}

type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"nullable,max=255"`
	Description *string  `json:"description" validate:"nullable"`
	Price       *float64 `json:"price"       validate:"nullable,numeric,gte=0"`
	Stock       *int     `json:"stock"       validate:"nullable,integer,gte=0"`
	IsActive    *bool    `json:"is_active"   validate:"nullable,boolean"`
}

// Update applies the provided fields to an existing product; absent fields
// are left untouched.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var req updateProductRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.NotFound(w)
			return
		}
		response.ServerError(w, "")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := c.products.Update(&product); err != nil {
		response.ServerError(w, "")
		return
	}
	response.SuccessMessage(w, "Product updated successfully", product)
}

// Destroy deletes a product unless order history references it.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	err := c.products.Delete(id)
	switch {
	case err == nil:
		response.SuccessMessage(w, "Product deleted successfully", nil)
	case errors.Is(err, services.ErrProductNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrProductHasOrders):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.ServerError(w, "")
	}
}

// UploadImage stores a product image on the configured storage disk and
// records its public URL.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.ValidationError(w, map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.ServerError(w, "")
		return
	}

	product, err := c.products.AttachImage(id, header.Filename, content)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.NotFound(w)
			return
		}
		response.ServerError(w, "")
		return
	}
	response.SuccessMessage(w, "Product image uploaded successfully", product)
}
