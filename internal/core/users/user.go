package users

import (
	"time"
)

// User is a row of the users table. Posts, likes and follow edges all
// reference users by ID.
type User struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Username  string    `json:"username" db:"username"`
	ID        int64     `json:"id" db:"id"`
}

// CreateUserRequest represents the input for creating a new user
type CreateUserRequest struct {
	Username string `json:"username"`
}
