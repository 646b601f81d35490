package likes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLikeRepository struct {
	mock.Mock
}

func (m *mockLikeRepository) LikeAndIncrement(ctx context.Context, userID, postID int64) (int, error) {
	args := m.Called(ctx, userID, postID)
	return args.Int(0), args.Error(1)
}

func (m *mockLikeRepository) ReconcileCounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeLikeStore mimics the unique (user, post) key and the counter update
// committing together
type fakeLikeStore struct {
	mu     sync.Mutex
	likes  map[[2]int64]struct{}
	counts map[int64]int
}

func newFakeLikeStore(postIDs ...int64) *fakeLikeStore {
	s := &fakeLikeStore{
		likes:  make(map[[2]int64]struct{}),
		counts: make(map[int64]int),
	}
	for _, id := range postIDs {
		s.counts[id] = 0
	}
	return s
}

func (s *fakeLikeStore) LikeAndIncrement(_ context.Context, userID, postID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counts[postID]; !ok {
		return 0, ErrPostNotFound
	}
	key := [2]int64{userID, postID}
	if _, exists := s.likes[key]; exists {
		return 0, ErrAlreadyLiked
	}
	s.likes[key] = struct{}{}
	s.counts[postID]++
	return s.counts[postID], nil
}

func (s *fakeLikeStore) ReconcileCounts(context.Context) (int64, error) {
	return 0, nil
}

type countingMetrics struct {
	mu     sync.Mutex
	counts map[Status]int
}

func (m *countingMetrics) ObserveLike(status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[Status]int)
	}
	m.counts[status]++
}

func TestLikePost_Liked(t *testing.T) {
	repo := new(mockLikeRepository)
	repo.On("LikeAndIncrement", mock.Anything, int64(1), int64(10)).Return(1, nil)
	metrics := &countingMetrics{}

	service := NewLikeService(repo, metrics, nil)

	result, err := service.LikePost(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, &Result{Status: StatusLiked, PostID: 10, LikeCount: 1}, result)
	assert.Equal(t, 1, metrics.counts[StatusLiked])
	repo.AssertExpectations(t)
}

func TestLikePost_AlreadyLikedIsNotAnError(t *testing.T) {
	repo := new(mockLikeRepository)
	repo.On("LikeAndIncrement", mock.Anything, int64(1), int64(10)).Return(0, ErrAlreadyLiked)

	service := NewLikeService(repo, nil, nil)

	result, err := service.LikePost(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyLiked, result.Status)
	assert.Equal(t, int64(10), result.PostID)
}

func TestLikePost_PostNotFound(t *testing.T) {
	repo := new(mockLikeRepository)
	repo.On("LikeAndIncrement", mock.Anything, int64(1), int64(99)).Return(0, ErrPostNotFound)

	service := NewLikeService(repo, nil, nil)

	_, err := service.LikePost(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikePost_StoreFailureIsWrapped(t *testing.T) {
	base := errors.New("serialization failure")
	repo := new(mockLikeRepository)
	repo.On("LikeAndIncrement", mock.Anything, int64(1), int64(10)).Return(0, base)

	service := NewLikeService(repo, nil, nil)

	result, err := service.LikePost(context.Background(), 1, 10)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, base)
	assert.False(t, errors.Is(err, ErrAlreadyLiked))
}

func TestLikePost_ValidateInput(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		userID int64
		postID int64
	}{
		{name: "missing user", userID: 0, postID: 10, field: "user_id"},
		{name: "negative user", userID: -3, postID: 10, field: "user_id"},
		{name: "missing post", userID: 1, postID: 0, field: "post_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockLikeRepository)
			service := NewLikeService(repo, nil, nil)

			_, err := service.LikePost(context.Background(), tt.userID, tt.postID)
			require.Error(t, err)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
			repo.AssertNotCalled(t, "LikeAndIncrement", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLikePost_TwiceCountsOnce(t *testing.T) {
	store := newFakeLikeStore(10)
	service := NewLikeService(store, nil, nil)
	ctx := context.Background()

	first, err := service.LikePost(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusLiked, first.Status)

	second, err := service.LikePost(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, StatusAlreadyLiked, second.Status)

	assert.Equal(t, 1, store.counts[10])
	assert.Len(t, store.likes, 1)
}

func TestLikePost_ConcurrentDistinctUsers(t *testing.T) {
	store := newFakeLikeStore(10)
	metrics := &countingMetrics{}
	service := NewLikeService(store, metrics, nil)

	const users = 50
	var wg sync.WaitGroup
	wg.Add(users)
	for i := 1; i <= users; i++ {
		go func(userID int64) {
			defer wg.Done()
			result, err := service.LikePost(context.Background(), userID, 10)
			assert.NoError(t, err)
			assert.Equal(t, StatusLiked, result.Status)
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, users, store.counts[10])
	assert.Len(t, store.likes, users)
	assert.Equal(t, users, metrics.counts[StatusLiked])
}

func TestLikePost_ConcurrentDuplicateUser(t *testing.T) {
	store := newFakeLikeStore(10)
	metrics := &countingMetrics{}
	service := NewLikeService(store, metrics, nil)

	const attempts = 20
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			_, err := service.LikePost(context.Background(), 7, 10)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.counts[10])
	assert.Equal(t, 1, metrics.counts[StatusLiked])
	assert.Equal(t, attempts-1, metrics.counts[StatusAlreadyLiked])
}

func TestReconcileCounts(t *testing.T) {
	repo := new(mockLikeRepository)
	repo.On("ReconcileCounts", mock.Anything).Return(int64(3), nil).Once()
	repo.On("ReconcileCounts", mock.Anything).Return(int64(0), errors.New("boom")).Once()

	service := NewLikeService(repo, nil, nil)

	fixed, err := service.ReconcileCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), fixed)

	_, err = service.ReconcileCounts(context.Background())
	assert.Error(t, err)
}
