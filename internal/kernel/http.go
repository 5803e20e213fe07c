// Package kernel assembles the HTTP stack: global middleware, the API
// routes, and the operational endpoints.
package kernel

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashiranjanraj/bazaar/app/routes"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/reqid"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// HTTPKernel owns the configured router.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the full middleware stack and mounts every route.
func NewHTTPKernel() *HTTPKernel {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.CORSFromConfig()),
		middleware.RateLimit(config.RateLimitPerMinute(), time.Minute),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	r.HandleFunc("/healthz", healthz)

	// Locally stored product images.
	files := http.StripPrefix("/storage/",
		http.FileServer(http.Dir(config.StorageLocalRoot())))
	r.HandleFunc("/storage/*", files.ServeHTTP)

	routes.RegisterAPI(r)

	return &HTTPKernel{router: r}
}

// healthz reports liveness plus the state of the two backing stores. The
// process is "ok" as long as the database answers; redis is optional and
// only reported.
func healthz(w http.ResponseWriter, _ *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok", "redis": "ok"}
	code := http.StatusOK

	if err := database.Healthy(); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}
	if cache.RDB == nil {
		status["redis"] = "disabled"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status) //nolint:errcheck
}

// Handler returns the root http.Handler.
func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the router for route listing.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}
