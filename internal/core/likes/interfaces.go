package likes

import "context"

// Service defines the business logic interface for likes
type Service interface {
	// LikePost records userID's like on postID and increments the post's counter.
	// A repeated like returns StatusAlreadyLiked with a nil error.
	LikePost(ctx context.Context, userID, postID int64) (*Result, error)

	// ReconcileCounts rewrites every like counter that disagrees with the
	// number of like records for its post. Returns the number of posts fixed.
	ReconcileCounts(ctx context.Context) (int64, error)
}

// Repository defines the data access interface for likes
type Repository interface {
	// LikeAndIncrement inserts the like record and increments posts.like_count
	// in one transaction, returning the new count.
	// Returns ErrAlreadyLiked or ErrPostNotFound after rolling back; on any
	// other failure the transaction is rolled back as well.
	LikeAndIncrement(ctx context.Context, userID, postID int64) (int, error)

	// ReconcileCounts sets like_count to the like record count where they differ
	ReconcileCounts(ctx context.Context) (int64, error)
}
