package likes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type likeService struct {
	repo    Repository
	metrics Metrics
	logger  *slog.Logger
}

// Metrics counts like outcomes
type Metrics interface {
	ObserveLike(status Status)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLike(Status) {}

// NewLikeService creates a new like service
// metrics and logger may be nil
func NewLikeService(repo Repository, metrics Metrics, logger *slog.Logger) Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &likeService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// LikePost applies the idempotent like-and-increment for (userID, postID)
func (s *likeService) LikePost(ctx context.Context, userID, postID int64) (*Result, error) {
	if userID <= 0 {
		return nil, NewValidationError("user_id", "required")
	}
	if postID <= 0 {
		return nil, NewValidationError("post_id", "must be a positive integer")
	}

	count, err := s.repo.LikeAndIncrement(ctx, userID, postID)
	switch {
	case err == nil:
		s.metrics.ObserveLike(StatusLiked)
		return &Result{Status: StatusLiked, PostID: postID, LikeCount: count}, nil

	case errors.Is(err, ErrAlreadyLiked):
		s.metrics.ObserveLike(StatusAlreadyLiked)
		s.logger.Debug("duplicate like ignored", "user_id", userID, "post_id", postID)
		return &Result{Status: StatusAlreadyLiked, PostID: postID}, nil

	case errors.Is(err, ErrPostNotFound):
		return nil, err

	default:
		return nil, fmt.Errorf("failed to like post: %w", err)
	}
}

// ReconcileCounts repairs drifted like counters
func (s *likeService) ReconcileCounts(ctx context.Context) (int64, error) {
	fixed, err := s.repo.ReconcileCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile like counts: %w", err)
	}
	if fixed > 0 {
		s.logger.Warn("like counters reconciled", "posts_fixed", fixed)
	}
	return fixed, nil
}
