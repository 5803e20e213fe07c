package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// OrderController places and reads the authenticated user's orders.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{orders: services.NewOrderService()}
}

// use_cart defaults to true when absent; explicit items are only consulted
// when it is false.
type placeOrderRequest struct {
	Address string               `json:"address" validate:"required,max=500"`
	Phone   string               `json:"phone"   validate:"required,max=20"`
	UseCart *bool                `json:"use_cart" validate:"nullable,boolean"`
	Items   []services.OrderLine `json:"items"`
}

// Store places an order from the cart or from an explicit item list.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req placeOrderRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	useCart := req.UseCart == nil || *req.UseCart

	if !useCart {
		if errs := validateOrderLines(req.Items); errs != nil {
			response.ValidationError(w, errs)
			return
		}
	}

	summary, err := c.orders.Place(services.PlaceOrderInput{
		UserID:  userID,
		UseCart: useCart,
		Items:   req.Items,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			response.ValidationError(w, map[string]string{"items": "The selected product_id is invalid."})
		case services.IsBusinessError(err):
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
		default:
			response.ServerError(w, "")
		}
		return
	}

	response.Created(w, "Order created successfully", summary)
}

// validateOrderLines checks an explicit item list field by field, keyed the
// way nested array errors are reported: items.0.product_id.
func validateOrderLines(items []services.OrderLine) map[string]string {
	if len(items) == 0 {
		return map[string]string{"items": "The items field is required when use_cart is false."}
	}

	errs := make(map[string]string)
	for i, item := range items {
		if item.ProductID == 0 {
			errs[fmt.Sprintf("items.%d.product_id", i)] = "The product_id field is required."
		}
		if item.Quantity < 1 {
			errs[fmt.Sprintf("items.%d.quantity", i)] = "The quantity must be at least 1."
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Index lists the user's orders with status filter, sorting, and pagination.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	q := r.URL.Query()

	orders, pagination, err := c.orders.ListForUser(repositories.OrderQuery{
		UserID:  userID,
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
	response.Paginated(w, orders, pagination)
}

// Show returns one order; only the owner may view it.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orderID, ok := paramUint(r, "id")
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.GetForUser(orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			response.NotFound(w)
		case errors.Is(err, services.ErrNotOwner):
			response.Forbidden(w)
		default:
			response.ServerError(w, "")
		}
		return
	}
	response.Success(w, order)
}
