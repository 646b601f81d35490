// Package redisfeed keeps per-user feed indexes in Redis sorted sets.
//
// Each feed is one sorted set keyed by owner. Members are zero-padded post
// ids so entries sharing a score sort by id, matching the (score, post id)
// order of every other feedindex.Index.
package redisfeed

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/go-redis/v9"

	"Murmur/internal/core/feedindex"
	"Murmur/internal/core/store"
)

// DefaultKeyPrefix is prepended to the owner id to form a feed's key
const DefaultKeyPrefix = "feed:"

// Options configures an Index
type Options struct {
	// KeyPrefix defaults to DefaultKeyPrefix
	KeyPrefix string
	// MaxLen trims each feed to its newest MaxLen entries after an insert.
	// Zero keeps every entry.
	MaxLen int64
}

// Index is a feedindex.Index backed by Redis sorted sets
type Index struct {
	client redis.UniversalClient
	prefix string
	maxLen int64
}

// NewIndex creates a Redis feed index on an existing client
func NewIndex(client redis.UniversalClient, opts Options) *Index {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	return &Index{
		client: client,
		prefix: opts.KeyPrefix,
		maxLen: opts.MaxLen,
	}
}

func (i *Index) key(ownerID int64) string {
	return i.prefix + strconv.FormatInt(ownerID, 10)
}

func member(postID int64) string {
	return fmt.Sprintf("%020d", postID)
}

// Insert adds entry to ownerID's feed. An existing member keeps its score.
func (i *Index) Insert(ctx context.Context, ownerID int64, entry feedindex.Entry) error {
	key := i.key(ownerID)

	if i.maxLen <= 0 {
		err := i.client.ZAddNX(ctx, key, redis.Z{Score: float64(entry.Score), Member: member(entry.PostID)}).Err()
		return store.Wrap("feed.zadd", err)
	}

	_, err := i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddNX(ctx, key, redis.Z{Score: float64(entry.Score), Member: member(entry.PostID)})
		pipe.ZRemRangeByRank(ctx, key, 0, -(i.maxLen + 1))
		return nil
	})
	return store.Wrap("feed.zadd", err)
}

// RangeByScore returns up to limit entries strictly older than below, newest first.
// A composite bound takes two reads: the remaining ties at below.Score, then
// everything strictly below it.
func (i *Index) RangeByScore(ctx context.Context, ownerID int64, below *feedindex.Bound, floor int64, limit int) ([]feedindex.Entry, error) {
	entries := make([]feedindex.Entry, 0, max0(limit))
	if limit <= 0 {
		return entries, nil
	}

	key := i.key(ownerID)
	floorArg := scoreArg(floor)
	upper := "+inf"

	if below != nil {
		if below.Score < floor {
			return entries, nil
		}

		s := strconv.FormatInt(below.Score, 10)
		ties, err := i.client.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{Max: s, Min: s}).Result()
		if err != nil {
			return nil, store.Wrap("feed.zrevrangebyscore", err)
		}
		cutoff := member(below.PostID)
		for _, z := range ties {
			m, _ := z.Member.(string)
			if m >= cutoff {
				continue
			}
			e, err := toEntry(z)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
			if len(entries) == limit {
				return entries, nil
			}
		}
		upper = "(" + s
	}

	rest, err := i.client.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Max:   upper,
		Min:   floorArg,
		Count: int64(limit - len(entries)),
	}).Result()
	if err != nil {
		return nil, store.Wrap("feed.zrevrangebyscore", err)
	}
	for _, z := range rest {
		e, err := toEntry(z)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Len returns the number of entries in ownerID's feed
func (i *Index) Len(ctx context.Context, ownerID int64) (int64, error) {
	n, err := i.client.ZCard(ctx, i.key(ownerID)).Result()
	return n, store.Wrap("feed.zcard", err)
}

func toEntry(z redis.Z) (feedindex.Entry, error) {
	m, ok := z.Member.(string)
	if !ok {
		return feedindex.Entry{}, store.Wrap("feed.decode", fmt.Errorf("unexpected member type %T", z.Member))
	}
	id, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return feedindex.Entry{}, store.Wrap("feed.decode", fmt.Errorf("invalid member %q: %w", m, err))
	}
	return feedindex.Entry{PostID: id, Score: int64(z.Score)}, nil
}

func scoreArg(score int64) string {
	if score == math.MinInt64 {
		return "-inf"
	}
	return strconv.FormatInt(score, 10)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
