package feed

import (
	"errors"
	"log"
	"net/http"

	"Murmur/internal/api/handlers"
	"Murmur/internal/core/store"
	"Murmur/internal/core/timeline"
)

// handleServiceError maps feed service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timeline.ErrInvalidCursor):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidCursor", "The provided cursor is invalid")

	case timeline.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case store.IsTimeout(err):
		log.Printf("Feed read timed out: %v", err)
		handlers.WriteError(w, http.StatusServiceUnavailable, "Unavailable", "Feed temporarily unavailable")

	default:
		log.Printf("Unexpected error in feed handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
