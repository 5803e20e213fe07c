// Package events wires domain events to their listeners: queued jobs, the
// admin order feed, and low-stock alerts.
package events

import (
	"encoding/json"

	"github.com/shashiranjanraj/bazaar/app/jobs"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

// OrderFeed pushes every placed order to connected admin dashboards.
var OrderFeed = ws.NewHub()

// Register hooks all listeners up and starts the order feed hub. Call once
// at boot, after the queue driver is configured.
func Register() {
	go OrderFeed.Run()

	event.Listen("order.placed", onOrderPlaced)
}

func onOrderPlaced(payload interface{}) {
	order, ok := payload.(models.Order)
	if !ok {
		logger.Error("events: order.placed payload is not an order", "type", payload)
		return
	}

	queueConfirmation(order)
	checkLowStock(order)

	update, err := json.Marshal(map[string]interface{}{
		"event":        "order.placed",
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"items_count":  len(order.Items),
		"status":       order.Status,
		"created_at":   order.CreatedAt,
	})
	if err != nil {
		logger.Error("events: marshal order update", "error", err)
		return
	}
	OrderFeed.Broadcast(update)
	ssePublish(update)
}

func queueConfirmation(order models.Order) {
	user, err := repositories.NewUserRepository().FindByID(order.UserID)
	if err != nil {
		logger.Error("events: load buyer for confirmation",
			"order_number", order.OrderNumber, "user_id", order.UserID, "error", err)
		return
	}

	err = queue.Dispatch(&jobs.OrderConfirmationJob{
		Email:       user.Email,
		Name:        user.Name,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		ItemsCount:  len(order.Items),
	})
	if err != nil {
		logger.Error("events: queue confirmation",
			"order_number", order.OrderNumber, "error", err)
	}
}

// checkLowStock inspects the post-decrement stock on each ordered product.
func checkLowStock(order models.Order) {
	threshold := config.LowStockThreshold()

	for _, item := range order.Items {
		if item.Product.ID == 0 || item.Product.Stock > threshold {
			continue
		}
		err := queue.Dispatch(&jobs.LowStockAlertJob{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Stock:       item.Product.Stock,
		})
		if err != nil {
			logger.Error("events: queue low-stock alert",
				"product_id", item.Product.ID, "error", err)
		}
	}
}
