package like

import (
	"errors"
	"log"
	"net/http"

	"Murmur/internal/api/handlers"
	"Murmur/internal/core/likes"
)

// handleServiceError maps like service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var valErr *likes.ValidationError
	switch {
	case errors.As(err, &valErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, likes.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	default:
		log.Printf("Unexpected error in like handler: %v", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
