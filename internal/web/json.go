// Package web holds the JSON response helpers shared by all handlers.
//
// Error bodies follow a small taxonomy: validation failures return 400 with
// every violated field listed, missing entities 404, uniqueness violations
// 409, missing/invalid credentials 401, and anything unexpected a generic
// 500 with the detail only logged.
package web

import (
	"encoding/json"
	"net/http"
)

// FieldError names a single violated field in a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes a plain {"error": msg} body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// ValidationError writes a 400 listing all violations.
func ValidationError(w http.ResponseWriter, details []FieldError) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Validation Error",
		"details": details,
	})
}

// ServerError writes a generic 500. The underlying cause must be logged by
// the caller, never sent to the client.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Server Error")
}
