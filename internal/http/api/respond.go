// Package api holds response helpers shared by the HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gcouto/patrimonio/internal/holdings"
	"github.com/gcouto/patrimonio/internal/source"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteError maps pipeline errors onto HTTP statuses and writes a JSON
// error body.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var mappingErr *holdings.MappingError

	var amountErr *holdings.AmountParseError

	switch {
	case errors.As(err, &mappingErr), errors.As(err, &amountErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrUnparseable):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, source.ErrAuthentication):
		return http.StatusBadGateway
	case errors.Is(err, source.ErrTransient):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
