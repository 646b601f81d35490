package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"Murmur/internal/core/feedindex"
	"Murmur/internal/core/follows"
)

// MaxContentGraphemes caps post length in user-perceived characters
const MaxContentGraphemes = 3000

// FanoutConfig bounds the cost of pushing a post into follower feeds
type FanoutConfig struct {
	// Concurrency is the maximum number of in-flight index inserts per post
	Concurrency int
	// Retries is how many times a failed insert is retried
	Retries uint64
	// RetryBase is the first backoff delay; later delays double
	RetryBase time.Duration
	// Timeout bounds the whole fan-out, independent of the caller's context
	Timeout time.Duration
	// IncludeAuthor also inserts the post into the author's own feed
	IncludeAuthor bool
}

// DefaultFanoutConfig returns the settings used when none are configured
func DefaultFanoutConfig() FanoutConfig {
	return FanoutConfig{
		Concurrency:   16,
		Retries:       2,
		RetryBase:     50 * time.Millisecond,
		Timeout:       30 * time.Second,
		IncludeAuthor: true,
	}
}

type postService struct {
	repo     Repository
	follows  follows.Repository
	index    feedindex.Index
	observer FanoutObserver
	logger   *slog.Logger
	cfg      FanoutConfig
}

// NewPostService creates a new post service
// observer and logger may be nil
func NewPostService(
	repo Repository,
	followRepo follows.Repository,
	index feedindex.Index,
	cfg FanoutConfig,
	observer FanoutObserver,
	logger *slog.Logger,
) Service {
	defaults := DefaultFanoutConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaults.RetryBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &postService{
		repo:     repo,
		follows:  followRepo,
		index:    index,
		observer: observer,
		logger:   logger,
		cfg:      cfg,
	}
}

// CreatePost persists a post and pushes a reference to it into every
// follower's feed index
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	// 1. Validate input before touching storage
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	// 2. Persist. Once this succeeds the post exists whatever happens to fan-out.
	post := &Post{
		AuthorID: req.AuthorID,
		Content:  req.Content,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, ErrAuthorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// 3. Fan out. Failures here are reported, never returned.
	if warning := s.fanout(ctx, post); warning != nil {
		s.logger.Warn("partial fan-out",
			"post_id", warning.PostID,
			"fanout_id", warning.FanoutID,
			"attempted", warning.Attempted,
			"failed", len(warning.FailedOwners),
			"error", warning.Err)
	}

	return post, nil
}

// GetPost reads a post from the durable store
func (s *postService) GetPost(ctx context.Context, id int64) (*PostView, error) {
	if id <= 0 {
		return nil, NewValidationError("id", "post id must be a positive integer")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// fanout inserts post into the feed of every follower (and the author).
// Inserts run concurrently, bounded by cfg.Concurrency, and are joined before
// returning. It returns nil when every feed was updated.
func (s *postService) fanout(ctx context.Context, post *Post) *PartialFanoutWarning {
	started := time.Now()
	fanoutID := uuid.NewString()

	// The request may finish before fan-out does; keep going until the fan-out timeout
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
	defer cancel()

	followerIDs, err := s.follows.ListFollowerIDs(ctx, post.AuthorID)
	if err != nil {
		err = fmt.Errorf("failed to list followers: %w", err)
		s.observer.ObserveFanout(0, 0, time.Since(started), err)
		return &PartialFanoutWarning{
			PostID:   post.ID,
			FanoutID: fanoutID,
			Err:      err,
		}
	}

	targets := s.fanoutTargets(post.AuthorID, followerIDs)
	entry := feedindex.NewEntry(post.ID, post.CreatedAt)

	var (
		mu       sync.Mutex
		failed   []int64
		firstErr error
	)

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for _, ownerID := range targets {
		ownerID := ownerID
		g.Go(func() error {
			if err := s.insertWithRetry(ctx, ownerID, entry); err != nil {
				s.logger.Debug("feed insert failed",
					"fanout_id", fanoutID,
					"owner_id", ownerID,
					"post_id", post.ID,
					"error", err)

				mu.Lock()
				failed = append(failed, ownerID)
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(started)
	s.observer.ObserveFanout(len(targets), len(failed), elapsed, firstErr)

	if len(failed) == 0 {
		s.logger.Debug("fan-out complete",
			"fanout_id", fanoutID,
			"post_id", post.ID,
			"feeds", len(targets),
			"elapsed", elapsed)
		return nil
	}

	return &PartialFanoutWarning{
		PostID:       post.ID,
		FanoutID:     fanoutID,
		Attempted:    len(targets),
		FailedOwners: failed,
		Err:          firstErr,
	}
}

// fanoutTargets returns the de-duplicated set of feeds that receive a post
func (s *postService) fanoutTargets(authorID int64, followerIDs []int64) []int64 {
	seen := make(map[int64]struct{}, len(followerIDs)+1)
	targets := make([]int64, 0, len(followerIDs)+1)

	if s.cfg.IncludeAuthor {
		seen[authorID] = struct{}{}
		targets = append(targets, authorID)
	}
	for _, id := range followerIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}
	return targets
}

func (s *postService) insertWithRetry(ctx context.Context, ownerID int64, entry feedindex.Entry) error {
	backoff := retry.WithMaxRetries(s.cfg.Retries, retry.NewExponential(s.cfg.RetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.index.Insert(ctx, ownerID, entry); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// validateCreateRequest validates basic input requirements
func (s *postService) validateCreateRequest(req CreatePostRequest) error {
	if req.AuthorID <= 0 {
		return NewValidationError("user_id", "author must be set from authenticated user")
	}

	if strings.TrimSpace(req.Content) == "" {
		return NewValidationError("content", "content is required")
	}

	if count := uniseg.GraphemeClusterCount(req.Content); count > MaxContentGraphemes {
		return NewValidationError("content",
			fmt.Sprintf("content must not exceed %d characters (got %d)", MaxContentGraphemes, count))
	}

	return nil
}
