// Package bootstrap opens the stores shared by the server and feedctl.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"Murmur/internal/config"
	"Murmur/internal/core/feedindex"
	"Murmur/internal/db/postgres"
	"Murmur/internal/db/redisfeed"
)

// OpenDB connects to PostgreSQL and verifies the connection
func OpenDB(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenFeedIndex returns the feed index selected by cfg.FeedIndex.
// The returned Closer releases any connection the index owns.
func OpenFeedIndex(ctx context.Context, cfg *config.Config, db *sql.DB) (feedindex.Index, io.Closer, error) {
	switch cfg.FeedIndex {
	case config.IndexPostgres:
		return postgres.NewFeedIndex(db), nopCloser{}, nil

	case config.IndexMemory:
		return feedindex.NewMemoryIndex(), nopCloser{}, nil

	case config.IndexRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redisfeed.NewIndex(client, redisfeed.Options{MaxLen: cfg.RedisMaxFeedLen}), client, nil

	default:
		return nil, nil, fmt.Errorf("unknown feed index %q", cfg.FeedIndex)
	}
}
