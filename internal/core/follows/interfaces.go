package follows

import "context"

// Repository reads the follower graph. Follow edges are written elsewhere;
// this service only resolves fan-out targets.
type Repository interface {
	// ListFollowerIDs returns the ids of every user following followeeID.
	// Order is unspecified.
	ListFollowerIDs(ctx context.Context, followeeID int64) ([]int64, error)
}
