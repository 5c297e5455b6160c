// Package httpx implements the uniform JSON response envelope shared by
// every API handler and the terminal error mapper.
package httpx

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/intralink/intralink/internal/shared"
)

// Envelope is the wire shape for every API response.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// JSON sends an arbitrary payload with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Success sends a success envelope with an explicit status code.
func Success(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// OK sends a 200 success envelope.
func OK(w http.ResponseWriter, message string, data any) {
	Success(w, http.StatusOK, message, data)
}

// Created sends a 201 success envelope.
func Created(w http.ResponseWriter, message string, data any) {
	Success(w, http.StatusCreated, message, data)
}

// Paginated sends a 200 success envelope with the items nested under key and
// the pagination block alongside.
func Paginated(w http.ResponseWriter, key string, items any, p shared.Pagination) {
	JSON(w, http.StatusOK, Envelope{
		Success: true,
		Data: map[string]any{
			key:          items,
			"pagination": p,
		},
	})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
