package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Murmur/internal/core/follows"
	"Murmur/internal/core/store"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow repository
func NewFollowRepository(db *sql.DB) follows.Repository {
	return &postgresFollowRepo{db: db}
}

// ListFollowerIDs returns everyone following followeeID
func (r *postgresFollowRepo) ListFollowerIDs(ctx context.Context, followeeID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT follower_id FROM follows WHERE following_id = $1`, followeeID)
	if err != nil {
		return nil, store.Wrap("follows.list_followers", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, store.Wrap("follows.list_followers", fmt.Errorf("failed to scan follower: %w", err))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("follows.list_followers", err)
	}
	return ids, nil
}
