package posts

import (
	"context"
	"time"
)

// Service defines the business logic interface for posts
type Service interface {
	// CreatePost stores a post and fans it out to the author's followers.
	// Flow: Validate -> Persist -> Resolve followers -> Insert into each follower's feed index
	// Once Persist succeeds the call succeeds; fan-out failures are logged, not returned.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost reads a post straight from the durable store, bypassing feed indexes
	GetPost(ctx context.Context, id int64) (*PostView, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a post and fills in its ID, CreatedAt and LikeCount
	// Returns ErrAuthorNotFound if AuthorID has no users row
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a single post joined with its author
	GetByID(ctx context.Context, id int64) (*PostView, error)

	// GetByIDs hydrates a set of posts in one query
	// Ids that do not resolve are absent from the result; order is unspecified
	GetByIDs(ctx context.Context, ids []int64) ([]*PostView, error)

	// ListByFollowedAuthors returns the newest posts by authors followerID follows,
	// plus followerID's own posts when includeOwn is set. Used to rebuild feed indexes.
	ListByFollowedAuthors(ctx context.Context, followerID int64, includeOwn bool, limit int) ([]*Post, error)
}

// FanoutObserver receives the outcome of every fan-out run.
// err is nil when every feed was updated.
type FanoutObserver interface {
	ObserveFanout(attempted, failed int, elapsed time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveFanout(int, int, time.Duration, error) {}
