package users

import "context"

// UserService defines the interface for managing users and the follow graph
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	Follow(ctx context.Context, followerID, followingID int64) error
}

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Follow inserts the edge followerID -> followingID.
	// Returns ErrAlreadyFollowing if it exists and ErrUserNotFound if either user is missing.
	Follow(ctx context.Context, followerID, followingID int64) error
}
