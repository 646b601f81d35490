package timeline

import (
	"context"
	"errors"

	"Murmur/internal/core/posts"
)

// PageSize is the number of entries returned per feed page
const PageSize = 10

// Service defines timeline business logic interface
type Service interface {
	// GetFeed returns one page of userID's feed, newest first, starting
	// strictly below req.Cursor (or at the newest entry when Cursor is empty)
	GetFeed(ctx context.Context, req GetFeedRequest) (*FeedPage, error)

	// RebuildFeed re-inserts up to limit recent posts from the durable store
	// into userID's feed index. Returns the number of entries written.
	RebuildFeed(ctx context.Context, userID int64, limit int) (int, error)
}

// GetFeedRequest represents input for fetching a user's feed
type GetFeedRequest struct {
	Cursor *string `json:"cursor,omitempty"`
	UserID int64   `json:"-"` // Extracted from auth, not from query params
}

// FeedPage represents paginated feed output.
// Cursor is nil when the page is empty, which ends pagination.
type FeedPage struct {
	Cursor *string           `json:"nextCursor"`
	Feed   []*posts.PostView `json:"feed"`
}

// Errors
var (
	ErrInvalidCursor = errors.New("invalid cursor")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
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
