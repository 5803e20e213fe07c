// Package routes mounts the HTTP surface: the REST API, the GraphQL
// endpoint, and the admin order feed.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/graphql"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/rbac"
	"github.com/shashiranjanraj/bazaar/pkg/router"
	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

// RegisterAPI wires every route. Product writes and the dashboard are
// admin-only; everything else under /api requires authentication.
func RegisterAPI(r *router.Router) {
	auth := controllers.NewAuthController()
	products := controllers.NewProductController()
	cart := controllers.NewCartController()
	orders := controllers.NewOrderController()
	dashboard := controllers.NewDashboardController()

	admin := rbac.HasRole(models.RoleAdmin)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", "auth.register", auth.Register)
	authGroup.Post("/login", "auth.login", auth.Login)

	authProtected := authGroup.Group("", middleware.Auth)
	authProtected.Post("/logout", "auth.logout", auth.Logout)
	authProtected.Get("/me", "auth.me", auth.Me)
	authProtected.Post("/refresh", "auth.refresh", auth.Refresh)

	protected := api.Group("", middleware.Auth)

	protected.Get("/products", "products.index", products.Index)
	protected.Get("/products/{id}", "products.show", products.Show)
	protected.Post("/products", "products.store", products.Store, admin)
	protected.Put("/products/{id}", "products.update", products.Update, admin)
	protected.Delete("/products/{id}", "products.destroy", products.Destroy, admin)
	protected.Post("/products/{id}/image", "products.image", products.UploadImage, admin)

	protected.Get("/cart", "cart.index", cart.Index)
	protected.Post("/cart", "cart.store", cart.Store)
	protected.Put("/cart/{id}", "cart.update", cart.Update)
	protected.Delete("/cart/{id}", "cart.destroy", cart.Destroy)
	protected.Delete("/cart", "cart.clear", cart.Clear)

	protected.Post("/orders", "orders.store", orders.Store)
	protected.Get("/orders", "orders.index", orders.Index)
	protected.Get("/orders/{id}", "orders.show", orders.Show)

	protected.Get("/dashboard/stats", "dashboard.stats", dashboard.Stats, admin)

	protected.Post("/graphql", "graphql", graphql.Handler())

	// Live order feed for admin dashboards, with an SSE fallback for
	// clients behind WebSocket-hostile proxies.
	r.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, events.OrderFeed)
	})
	r.Get("/sse/orders", "sse.orders", events.StreamOrders)
}
