package posts

import (
	"time"
)

// Post is a row of the posts table, the durable record of a post.
// ID and CreatedAt are assigned by the database on insert.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Content   string    `json:"content" db:"content"`
	ID        int64     `json:"id" db:"id"`
	AuthorID  int64     `json:"authorId" db:"user_id"`
	LikeCount int       `json:"likeCount" db:"like_count"`
}

// AuthorView is the author display data joined into hydrated posts
type AuthorView struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// PostView is a post hydrated with its author, as returned in feeds
type PostView struct {
	CreatedAt time.Time   `json:"createdAt"`
	Author    *AuthorView `json:"author"`
	Content   string      `json:"content"`
	ID        int64       `json:"id"`
	LikeCount int         `json:"likeCount"`
}

// CreatePostRequest is the input for creating a post.
// AuthorID comes from the authenticated request, never from the body.
type CreatePostRequest struct {
	Content  string `json:"content"`
	AuthorID int64  `json:"-"`
}
