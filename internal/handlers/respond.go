package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/todo-tracker/internal/models"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the structured error body used by every endpoint.
func writeError(w http.ResponseWriter, status int, message, rawErr string) {
	writeJSON(w, status, models.NewErrorResponse(message, rawErr))
}
