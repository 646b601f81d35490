package likes

import "time"

// Status discriminates the outcome of a like request
type Status string

const (
	// StatusLiked means this call recorded the like and incremented the counter
	StatusLiked Status = "liked"
	// StatusAlreadyLiked means the user had liked the post before; nothing changed
	StatusAlreadyLiked Status = "already-liked"
)

// Like is a row of the likes table. At most one exists per (user, post).
type Like struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UserID    int64     `json:"userId" db:"user_id"`
	PostID    int64     `json:"postId" db:"post_id"`
}

// Result is the response of LikePost
type Result struct {
	Status    Status `json:"status"`
	PostID    int64  `json:"postId"`
	LikeCount int    `json:"likeCount,omitempty"`
}
