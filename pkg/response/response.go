// Package response writes the JSON envelope used by every Bazaar endpoint:
//
//	{"success": true,  "message": "...", "data": {...}}
//	{"success": false, "message": "...", "errors": {"field": "msg"}}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// paginated carries listing data plus page metadata alongside it, matching
// the {success, data, pagination} shape the client expects.
type paginated struct {
	Success    bool           `json:"success"`
	Data       interface{}    `json:"data"`
	Pagination orm.Pagination `json:"pagination"`
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// SuccessMessage sends a 200 with a message and optional data.
func SuccessMessage(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 with a message and data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// Error sends an error envelope with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Message: message})
}

// ValidationError sends a 422 with a field → message map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Success: false,
		Message: "Validation errors",
		Errors:  errs,
	})
}

// Paginated sends a 200 listing response with pagination metadata.
func Paginated(w http.ResponseWriter, data interface{}, pagination orm.Pagination) {
	write(w, http.StatusOK, paginated{Success: true, Data: data, Pagination: pagination})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Unauthorized")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// ServerError sends a 500 with a generic message, never internal detail.
func ServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	Error(w, http.StatusInternalServerError, message)
}
