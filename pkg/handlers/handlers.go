// Package handlers holds the JSON response helpers shared by domain handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as {"error": "..."}. Server errors
// are logged at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON reads the request body into T.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}
