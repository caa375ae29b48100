// Package respond centralizes JSON response writing. Error bodies are
// always {"message": "..."} with the mapped HTTP status.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}

// Error writes a {"message": ...} body with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}
