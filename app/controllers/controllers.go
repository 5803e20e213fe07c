// Package controllers holds the HTTP handlers. Controllers bind and validate
// input, call a service, and translate service errors into the JSON envelope;
// business rules live in app/services.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// paramUint reads a numeric URL parameter. ok is false when the segment is
// missing or not a positive integer.
func paramUint(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
