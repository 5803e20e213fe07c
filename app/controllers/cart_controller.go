package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// CartController mutates and reads the authenticated user's cart.
type CartController struct {
	cart *services.CartService
}

func NewCartController() *CartController {
	return &CartController{cart: services.NewCartService()}
}

// Index returns the cart with line subtotals and totals.
func (c *CartController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	cart, err := c.cart.Get(userID)
	if err != nil {
		response.ServerError(w, "")
		return
	}
	response.Success(w, cart)
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required,integer"`
	Quantity  int  `json:"quantity"   validate:"required,integer,gte=1"`
}

// Store adds a product to the cart; adding an existing product is additive.
func (c *CartController) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req addToCartRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	line, err := c.cart.Add(userID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			response.ValidationError(w, map[string]string{"product_id": "The selected product_id is invalid."})
			return
		}
		if services.IsBusinessError(err) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		response.ServerError(w, "")
		return
	}

	response.Created(w, "Item added to cart successfully", line)
}

type updateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,integer,gte=1"`
}

// Update sets an absolute quantity on one cart line.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	itemID, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	var req updateCartRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	line, err := c.cart.UpdateQuantity(userID, itemID, req.Quantity)
	if err != nil {
		c.writeCartError(w, err)
		return
	}
	response.SuccessMessage(w, "Cart item updated successfully", line)
}

// Destroy removes one cart line.
func (c *CartController) Destroy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	itemID, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	if err := c.cart.Remove(userID, itemID); err != nil {
		c.writeCartError(w, err)
		return
	}
	response.SuccessMessage(w, "Item removed from cart successfully", nil)
}

// Clear empties the cart and reports how many lines were removed.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	removed, err := c.cart.Clear(userID)
	if err != nil {
		response.ServerError(w, "")
		return
	}
	response.SuccessMessage(w, fmt.Sprintf("Cart cleared successfully. %d items removed.", removed), nil)
}

func (c *CartController) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartItemNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrNotOwner):
		response.Forbidden(w)
	case services.IsBusinessError(err):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.ServerError(w, "")
	}
}
