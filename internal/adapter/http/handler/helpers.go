package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/tinyledger/internal/adapter/http/dto"
	"github.com/iho/tinyledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidMovementType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPagination):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict
	default:
		// ErrLedgerCorrupted and anything unexpected stay internal.
		return http.StatusInternalServerError
	}
}

// errorMessage picks the client-facing message for an error. Internal
// failures get a generic message so no state leaks to the caller.
func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "an unexpected error occurred"
	}
	return err.Error()
}

// parseOptionalIntQuery parses an optional integer query parameter.
// Returns nil when the parameter is absent and an error when it is
// present but not an integer.
func parseOptionalIntQuery(r *http.Request, key string) (*int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return nil, domain.ErrInvalidPagination
	}

	return &i, nil
}
