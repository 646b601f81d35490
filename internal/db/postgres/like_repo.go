package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"Murmur/internal/core/likes"
	"Murmur/internal/core/store"
)

type postgresLikeRepo struct {
	db *sql.DB
}

// NewLikeRepository creates a new PostgreSQL like repository
func NewLikeRepository(db *sql.DB) likes.Repository {
	return &postgresLikeRepo{db: db}
}

// LikeAndIncrement records the like and bumps the post's counter atomically.
// The (user_id, post_id) primary key decides which of two concurrent
// duplicate likes wins; the loser sees no returned row and rolls back.
func (r *postgresLikeRepo) LikeAndIncrement(ctx context.Context, userID, postID int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, store.Wrap("likes.begin", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			slog.Error("failed to rollback like transaction",
				"user_id", userID,
				"post_id", postID,
				"error", rollbackErr)
		}
	}()

	// 1. Insert the like record. ON CONFLICT DO NOTHING returns no row for a duplicate.
	var inserted int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
		RETURNING post_id
	`, userID, postID).Scan(&inserted)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, likes.ErrAlreadyLiked
	}
	if err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return 0, likes.ErrPostNotFound
		}
		return 0, store.Wrap("likes.insert", err)
	}

	// 2. Increment the counter in the same transaction
	var count int
	err = tx.QueryRowContext(ctx, `
		UPDATE posts
		SET like_count = like_count + 1
		WHERE id = $1
		RETURNING like_count
	`, postID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, likes.ErrPostNotFound
	}
	if err != nil {
		return 0, store.Wrap("likes.increment", err)
	}

	// 3. Commit both writes or neither
	if err := tx.Commit(); err != nil {
		return 0, store.Wrap("likes.commit", err)
	}

	return count, nil
}

// ReconcileCounts rewrites like_count wherever it disagrees with the likes table
func (r *postgresLikeRepo) ReconcileCounts(ctx context.Context) (int64, error) {
	query := `
		UPDATE posts p
		SET like_count = c.n
		FROM (
			SELECT p2.id, COUNT(l.post_id) AS n
			FROM posts p2
			LEFT JOIN likes l ON l.post_id = p2.id
			GROUP BY p2.id
		) c
		WHERE p.id = c.id AND p.like_count <> c.n
	`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, store.Wrap("likes.reconcile", err)
	}

	fixed, err := result.RowsAffected()
	if err != nil {
		return 0, store.Wrap("likes.reconcile", fmt.Errorf("failed to read affected rows: %w", err))
	}
	return fixed, nil
}
