package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
)

// ValidateUUID returns middleware that rejects requests whose named URL
// parameter is missing or not a valid UUID, before the handler runs.
// Returns 400 Bad Request on failure.
//
// Example usage in router:
//
//	r.Route("/{portfolioId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUID("portfolioId"))
//	    r.Get("/items", handler.Holdings)
//	})
func ValidateUUID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)

			if id == "" {
				respondValidationError(w, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidUUID, param))
				return
			}

			if _, err := uuid.Parse(id); err != nil {
				respondValidationError(w, fmt.Errorf("%w: %q", apperrors.ErrInvalidUUID, id))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// respondValidationError writes the same error shape the handlers use.
func respondValidationError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":  "Invalid UUID format",
		"detail": err.Error(),
	})
}
