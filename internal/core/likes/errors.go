package likes

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyLiked indicates a like record for (user, post) already exists
	ErrAlreadyLiked = errors.New("post already liked")

	// ErrPostNotFound indicates the post being liked doesn't exist
	ErrPostNotFound = errors.New("post not found")
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
