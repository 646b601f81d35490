package postgres

import (
	"context"
	"database/sql"
	"errors"

	"Murmur/internal/core/store"
	"Murmur/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (username)
		VALUES ($1)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.Username).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return nil, users.ErrUsernameTaken
		}
		return nil, store.Wrap("users.create", err)
	}

	return user, nil
}

// GetByID retrieves a user by id
func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	user := &users.User{}
	query := `SELECT id, username, created_at FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, store.Wrap("users.get", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	user := &users.User{}
	query := `SELECT id, username, created_at FROM users WHERE username = $1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, store.Wrap("users.get_by_username", err)
	}

	return user, nil
}

// Follow inserts a follow edge
func (r *postgresUserRepo) Follow(ctx context.Context, followerID, followingID int64) error {
	query := `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, following_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return users.ErrUserNotFound
		}
		return store.Wrap("follows.create", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.Wrap("follows.create", err)
	}
	if rows == 0 {
		return users.ErrAlreadyFollowing
	}
	return nil
}
