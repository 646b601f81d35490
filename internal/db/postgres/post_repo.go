package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"Murmur/internal/core/posts"
	"Murmur/internal/core/store"
)

// Postgres error codes handled explicitly
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post into the posts table
// id, created_at and like_count are assigned by the database
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (user_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at, like_count
	`

	err := r.db.QueryRowContext(ctx, query, post.AuthorID, post.Content).
		Scan(&post.ID, &post.CreatedAt, &post.LikeCount)
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return posts.ErrAuthorNotFound
		}
		return store.Wrap("posts.create", err)
	}

	return nil
}

// GetByID retrieves a post joined with its author
func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.PostView, error) {
	query := `
		SELECT p.id, p.content, p.like_count, p.created_at, u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	view, err := scanPostView(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, store.Wrap("posts.get", err)
	}
	return view, nil
}

// GetByIDs hydrates a page of feed entries in a single round trip
func (r *postgresPostRepo) GetByIDs(ctx context.Context, ids []int64) ([]*posts.PostView, error) {
	if len(ids) == 0 {
		return []*posts.PostView{}, nil
	}

	query := `
		SELECT p.id, p.content, p.like_count, p.created_at, u.id, u.username
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, store.Wrap("posts.get_many", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*posts.PostView, 0, len(ids))
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, store.Wrap("posts.get_many", fmt.Errorf("failed to scan post: %w", err))
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("posts.get_many", err)
	}

	return result, nil
}

// ListByFollowedAuthors returns the newest posts visible in followerID's feed
func (r *postgresPostRepo) ListByFollowedAuthors(ctx context.Context, followerID int64, includeOwn bool, limit int) ([]*posts.Post, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.like_count, p.created_at
		FROM posts p
		WHERE p.user_id IN (SELECT following_id FROM follows WHERE follower_id = $1)
		   OR ($2 AND p.user_id = $1)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, followerID, includeOwn, limit)
	if err != nil {
		return nil, store.Wrap("posts.list_followed", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*posts.Post
	for rows.Next() {
		var p posts.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Content, &p.LikeCount, &p.CreatedAt); err != nil {
			return nil, store.Wrap("posts.list_followed", fmt.Errorf("failed to scan post: %w", err))
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("posts.list_followed", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPostView(row rowScanner) (*posts.PostView, error) {
	var (
		view   posts.PostView
		author posts.AuthorView
	)
	if err := row.Scan(&view.ID, &view.Content, &view.LikeCount, &view.CreatedAt, &author.ID, &author.Username); err != nil {
		return nil, err
	}
	view.Author = &author
	return &view, nil
}

// isPQCode reports whether err is a Postgres error with the given SQLSTATE
func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
