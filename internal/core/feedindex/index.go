package feedindex

import (
	"context"
	"math"
	"time"
)

// MinScore is the inclusive lower bound meaning "no lower bound" (-inf).
const MinScore int64 = math.MinInt64

// Entry is a single post reference in a user's feed index.
// Entries order by Score descending, then PostID descending.
type Entry struct {
	PostID int64 `json:"postId"`
	Score  int64 `json:"score"`
}

// Bound is an exclusive upper bound on the (Score, PostID) ordering key.
// A Bound with PostID 0 excludes every entry at Score, since post ids start at 1.
type Bound struct {
	Score  int64
	PostID int64
}

// Index is a per-user ordered collection of post references.
// It is derived data: everything in it can be rebuilt from the durable store.
// Implementations must support concurrent Insert calls for the same owner.
type Index interface {
	// Insert adds entry to ownerID's index. Re-inserting the same post is a no-op.
	Insert(ctx context.Context, ownerID int64, entry Entry) error

	// RangeByScore returns at most limit entries of ownerID's index that sort
	// strictly older than below (nil = unbounded) and have Score >= floor, newest first.
	RangeByScore(ctx context.Context, ownerID int64, below *Bound, floor int64, limit int) ([]Entry, error)
}

// ScoreFor returns the ordering score for a post created at createdAt.
func ScoreFor(createdAt time.Time) int64 {
	return createdAt.UnixMilli()
}

// NewEntry builds the index entry for a post.
func NewEntry(postID int64, createdAt time.Time) Entry {
	return Entry{PostID: postID, Score: ScoreFor(createdAt)}
}

// Before reports whether e sorts strictly after (is older than) the bound.
func (e Entry) Before(b Bound) bool {
	if e.Score != b.Score {
		return e.Score < b.Score
	}
	return e.PostID < b.PostID
}

// Bound returns the exclusive bound that resumes a scan right after e.
func (e Entry) Bound() Bound {
	return Bound{Score: e.Score, PostID: e.PostID}
}

// newer reports whether a sorts before b in feed order.
func newer(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.PostID > b.PostID
}
