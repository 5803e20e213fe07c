package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/bazaar/config"
)

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	AllowedOrigins []string // exact origins, or ["*"]
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // seconds for preflight cache
}

// CORSFromConfig builds options from CORS_ORIGINS with the method and
// header set the storefront frontend needs.
func CORSFromConfig() CORSOptions {
	return CORSOptions{
		AllowedOrigins: config.CORSAllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		MaxAge:         300,
	}
}

// CORS returns a middleware that adds Cross-Origin Resource Sharing headers.
// Preflight OPTIONS requests are answered directly with 204.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")

	wildcard := false
	exact := map[string]bool{}
	for _, o := range opts.AllowedOrigins {
		if o == "*" {
			wildcard = true
			continue
		}
		exact[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case exact[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				// Responses differ per origin, so caches must key on it.
				w.Header().Add("Vary", "Origin")
			}

			if w.Header().Get("Access-Control-Allow-Origin") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
