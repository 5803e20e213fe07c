package services

import (
	"fmt"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
)

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	TotalProducts int64          `json:"total_products"`
	TotalOrders   int64          `json:"total_orders"`
	TotalUsers    int64          `json:"total_users"`
	Revenue       float64        `json:"revenue"`
	RecentOrders  []models.Order `json:"recent_orders"`
}

// DashboardService aggregates store-wide counters for the admin dashboard.
type DashboardService struct {
	users    *repositories.UserRepository
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
}

func NewDashboardService() *DashboardService {
	return &DashboardService{
		users:    repositories.NewUserRepository(),
		products: repositories.NewProductRepository(),
		orders:   repositories.NewOrderRepository(),
	}
}

// Stats returns totals plus the five most recent orders.
func (s *DashboardService) Stats() (DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalProducts, err = s.products.Count(); err != nil {
		return stats, fmt.Errorf("dashboard: products: %w", err)
	}
	if stats.TotalOrders, err = s.orders.Count(); err != nil {
		return stats, fmt.Errorf("dashboard: orders: %w", err)
	}
	if stats.TotalUsers, err = s.users.Count(); err != nil {
		return stats, fmt.Errorf("dashboard: users: %w", err)
	}
	if stats.Revenue, err = s.orders.Revenue(); err != nil {
		return stats, fmt.Errorf("dashboard: revenue: %w", err)
	}
	if stats.RecentOrders, err = s.orders.Recent(5); err != nil {
		return stats, fmt.Errorf("dashboard: recent orders: %w", err)
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []models.Order{}
	}
	return stats, nil
}
