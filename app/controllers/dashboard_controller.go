package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// DashboardController serves store-wide statistics to admins.
type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController() *DashboardController {
	return &DashboardController{dashboard: services.NewDashboardService()}
}

// Stats returns totals, revenue, and the most recent orders.
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.dashboard.Stats()
	if err != nil {
		response.ServerError(w, "")
		return
	}
	response.Success(w, stats)
}
