package timeline

import (
	"context"
	"fmt"
	"log/slog"

	"Murmur/internal/core/feedindex"
	"Murmur/internal/core/posts"
)

// defaultRebuildLimit caps how many posts RebuildFeed restores when no limit is given
const defaultRebuildLimit = 500

// Config controls feed reads and rebuilds
type Config struct {
	// IncludeOwnPosts makes RebuildFeed restore the user's own posts too.
	// It should match the fan-out IncludeAuthor setting.
	IncludeOwnPosts bool
}

type timelineService struct {
	index    feedindex.Index
	postRepo posts.Repository
	logger   *slog.Logger
	cfg      Config
}

// NewTimelineService creates a new timeline service
func NewTimelineService(index feedindex.Index, postRepo posts.Repository, cfg Config, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &timelineService{
		index:    index,
		postRepo: postRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetFeed reads candidate post ids from the feed index and hydrates them
// from the durable store in a single batched lookup
func (s *timelineService) GetFeed(ctx context.Context, req GetFeedRequest) (*FeedPage, error) {
	// 1. Validate request
	if req.UserID <= 0 {
		return nil, NewValidationError("user_id", "user_id is required")
	}

	var below *feedindex.Bound
	if req.Cursor != nil {
		bound, err := ParseCursor(*req.Cursor)
		if err != nil {
			return nil, err
		}
		below = bound
	}

	// 2. Scan the feed index below the cursor
	entries, err := s.index.RangeByScore(ctx, req.UserID, below, feedindex.MinScore, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed index: %w", err)
	}

	// 3. An empty page ends pagination
	if len(entries) == 0 {
		return &FeedPage{Feed: []*posts.PostView{}}, nil
	}

	// 4. Hydrate in one query; the store's order is not trusted
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.PostID
	}

	hydrated, err := s.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate feed: %w", err)
	}

	byID := make(map[int64]*posts.PostView, len(hydrated))
	for _, p := range hydrated {
		byID[p.ID] = p
	}

	feed := make([]*posts.PostView, 0, len(entries))
	for _, e := range entries {
		post, ok := byID[e.PostID]
		if !ok {
			// Dangling reference: the index outlived the post
			s.logger.Debug("dropping unresolved feed entry",
				"user_id", req.UserID,
				"post_id", e.PostID)
			continue
		}
		feed = append(feed, post)
	}

	// 5. The watermark comes from the index entry so dropped entries are not re-read
	cursor := EncodeCursor(entries[len(entries)-1].Bound())

	return &FeedPage{
		Feed:   feed,
		Cursor: &cursor,
	}, nil
}

// RebuildFeed restores userID's feed index from the durable store
func (s *timelineService) RebuildFeed(ctx context.Context, userID int64, limit int) (int, error) {
	if userID <= 0 {
		return 0, NewValidationError("user_id", "user_id is required")
	}
	if limit <= 0 {
		limit = defaultRebuildLimit
	}

	recent, err := s.postRepo.ListByFollowedAuthors(ctx, userID, s.cfg.IncludeOwnPosts, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to list posts for rebuild: %w", err)
	}

	written := 0
	for _, p := range recent {
		if err := s.index.Insert(ctx, userID, feedindex.NewEntry(p.ID, p.CreatedAt)); err != nil {
			return written, fmt.Errorf("failed to insert feed entry for post %d: %w", p.ID, err)
		}
		written++
	}

	s.logger.Info("feed rebuilt", "user_id", userID, "entries", written)
	return written, nil
}
