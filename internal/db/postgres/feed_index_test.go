package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Murmur/internal/core/feedindex"
)

func TestFeedIndex_RangeByScore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	index := NewFeedIndex(db)

	// Owner 1: ids 1..5 at scores 100..500, plus two ties at 300
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, index.Insert(ctx, 1, feedindex.Entry{PostID: i, Score: i * 100}))
	}
	require.NoError(t, index.Insert(ctx, 1, feedindex.Entry{PostID: 10, Score: 300}))
	require.NoError(t, index.Insert(ctx, 2, feedindex.Entry{PostID: 99, Score: 999}))

	all, err := index.RangeByScore(ctx, 1, nil, feedindex.MinScore, 10)
	require.NoError(t, err)
	assert.Equal(t, []feedindex.Entry{
		{PostID: 5, Score: 500},
		{PostID: 4, Score: 400},
		{PostID: 10, Score: 300},
		{PostID: 3, Score: 300},
		{PostID: 2, Score: 200},
		{PostID: 1, Score: 100},
	}, all)

	page, err := index.RangeByScore(ctx, 1, &feedindex.Bound{Score: 300, PostID: 10}, feedindex.MinScore, 2)
	require.NoError(t, err)
	assert.Equal(t, []feedindex.Entry{{PostID: 3, Score: 300}, {PostID: 2, Score: 200}}, page)

	floor, err := index.RangeByScore(ctx, 1, nil, 300, 10)
	require.NoError(t, err)
	assert.Len(t, floor, 4)

	none, err := index.RangeByScore(ctx, 3, nil, feedindex.MinScore, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFeedIndex_InsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	index := NewFeedIndex(db)

	entry := feedindex.Entry{PostID: 7, Score: 100}
	require.NoError(t, index.Insert(ctx, 1, entry))
	require.NoError(t, index.Insert(ctx, 1, entry))

	got, err := index.RangeByScore(ctx, 1, nil, feedindex.MinScore, 10)
	require.NoError(t, err)
	assert.Equal(t, []feedindex.Entry{entry}, got)
}
