package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/medfichas/pkg/api"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// WriteError writes an api.ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, resp api.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
