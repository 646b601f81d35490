package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when the username belongs to another user
	ErrUsernameTaken = errors.New("username already taken")

	// ErrAlreadyFollowing is returned when the follow edge already exists
	ErrAlreadyFollowing = errors.New("already following")
)

// InvalidUsernameError is returned when a username does not meet format requirements
type InvalidUsernameError struct {
	Username string
	Reason   string
}

func (e *InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid username %q: %s", e.Username, e.Reason)
}

// InvalidFollowError is returned for follow edges the graph does not allow
type InvalidFollowError struct {
	Reason      string
	FollowerID  int64
	FollowingID int64
}

func (e *InvalidFollowError) Error() string {
	return fmt.Sprintf("invalid follow %d -> %d: %s", e.FollowerID, e.FollowingID, e.Reason)
}
