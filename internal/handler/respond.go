package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sweetshop/backend/internal/inventory"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeInventoryError maps the engine's error taxonomy onto HTTP statuses.
func (h *Handler) writeInventoryError(w http.ResponseWriter, err error) {
	var stockErr *inventory.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, inventory.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, inventory.ErrNotFound):
		writeError(w, http.StatusNotFound, inventory.ErrNotFound.Error())
	case errors.Is(err, inventory.ErrForbidden):
		writeError(w, http.StatusForbidden, inventory.ErrForbidden.Error())
	case errors.Is(err, inventory.ErrDegradedState), errors.Is(err, inventory.ErrTransactionFailed):
		// Already logged with detail at the engine; don't leak internals.
		writeError(w, http.StatusInternalServerError, "transaction failed")
	default:
		h.logger.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
