package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post does not exist
	ErrNotFound = errors.New("post not found")

	// ErrAuthorNotFound is returned when the author has no users row
	ErrAuthorNotFound = errors.New("author not found")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// PartialFanoutWarning reports that a post was stored but some followers'
// feed indexes were not updated. It never fails CreatePost; it is logged and
// counted so operators can rebuild the affected feeds.
type PartialFanoutWarning struct {
	Err          error
	FanoutID     string
	FailedOwners []int64
	PostID       int64
	Attempted    int
}

func (w *PartialFanoutWarning) Error() string {
	return fmt.Sprintf("partial fan-out for post %d: %d of %d feeds not updated: %v",
		w.PostID, len(w.FailedOwners), w.Attempted, w.Err)
}

func (w *PartialFanoutWarning) Unwrap() error {
	return w.Err
}
