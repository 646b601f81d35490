package users

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Usernames are lowercase ascii letters, digits and underscores
var usernameRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

const maxUsernameLength = 32

type userService struct {
	userRepo UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// CreateUser creates a new user
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	// Normalize username
	username := strings.TrimSpace(strings.ToLower(req.Username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	// Repository will handle duplicate constraint errors
	return s.userRepo.Create(ctx, &User{Username: username})
}

// GetUserByUsername retrieves a user by username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	return s.userRepo.GetByUsername(ctx, username)
}

// Follow makes followerID a follower of followingID.
// Only posts created after the edge exists are fanned out to the follower;
// older posts arrive through a feed rebuild.
func (s *userService) Follow(ctx context.Context, followerID, followingID int64) error {
	if followerID <= 0 || followingID <= 0 {
		return &InvalidFollowError{FollowerID: followerID, FollowingID: followingID, Reason: "user ids must be positive"}
	}
	if followerID == followingID {
		return &InvalidFollowError{FollowerID: followerID, FollowingID: followingID, Reason: "users cannot follow themselves"}
	}

	return s.userRepo.Follow(ctx, followerID, followingID)
}

func validateUsername(username string) error {
	if username == "" {
		return &InvalidUsernameError{Username: username, Reason: "username is required"}
	}
	if len(username) > maxUsernameLength {
		return &InvalidUsernameError{Username: username, Reason: fmt.Sprintf("must be at most %d characters", maxUsernameLength)}
	}
	if !usernameRegex.MatchString(username) {
		return &InvalidUsernameError{Username: username, Reason: "only letters, digits and underscores are allowed"}
	}
	return nil
}
