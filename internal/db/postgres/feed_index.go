package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Murmur/internal/core/feedindex"
	"Murmur/internal/core/store"
)

// FeedIndex is a feedindex.Index kept in the feed_entries table.
// It needs no extra infrastructure and survives restarts, at the cost of
// one row per (follower, post).
type FeedIndex struct {
	db *sql.DB
}

// NewFeedIndex creates a feed index backed by PostgreSQL
func NewFeedIndex(db *sql.DB) *FeedIndex {
	return &FeedIndex{db: db}
}

// Insert adds entry to ownerID's feed. Re-inserting an entry is a no-op.
func (f *FeedIndex) Insert(ctx context.Context, ownerID int64, entry feedindex.Entry) error {
	_, err := f.db.ExecContext(ctx, `
		INSERT INTO feed_entries (owner_id, post_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, post_id) DO NOTHING
	`, ownerID, entry.PostID, entry.Score)
	return store.Wrap("feed_entries.insert", err)
}

// RangeByScore returns up to limit entries strictly older than below, newest first
func (f *FeedIndex) RangeByScore(ctx context.Context, ownerID int64, below *feedindex.Bound, floor int64, limit int) ([]feedindex.Entry, error) {
	if limit <= 0 {
		return []feedindex.Entry{}, nil
	}

	var (
		rows *sql.Rows
		err  error
	)
	if below == nil {
		rows, err = f.db.QueryContext(ctx, `
			SELECT post_id, score FROM feed_entries
			WHERE owner_id = $1 AND score >= $2
			ORDER BY score DESC, post_id DESC
			LIMIT $3
		`, ownerID, floor, limit)
	} else {
		rows, err = f.db.QueryContext(ctx, `
			SELECT post_id, score FROM feed_entries
			WHERE owner_id = $1 AND (score, post_id) < ($2, $3) AND score >= $4
			ORDER BY score DESC, post_id DESC
			LIMIT $5
		`, ownerID, below.Score, below.PostID, floor, limit)
	}
	if err != nil {
		return nil, store.Wrap("feed_entries.range", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]feedindex.Entry, 0, limit)
	for rows.Next() {
		var e feedindex.Entry
		if err := rows.Scan(&e.PostID, &e.Score); err != nil {
			return nil, store.Wrap("feed_entries.range", fmt.Errorf("failed to scan entry: %w", err))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Wrap("feed_entries.range", err)
	}
	return entries, nil
}
