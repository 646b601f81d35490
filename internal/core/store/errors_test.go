package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("posts.create", nil))

	base := errors.New("connection refused")
	err := Wrap("posts.create", base)

	assert.True(t, IsStoreError(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "store: posts.create: connection refused", err.Error())

	wrapped := fmt.Errorf("failed to create post: %w", err)
	assert.True(t, IsStoreError(wrapped), "store errors must survive further wrapping")
	assert.False(t, IsStoreError(base))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(Wrap("feed.insert", context.DeadlineExceeded)))
	assert.True(t, IsTimeout(fmt.Errorf("x: %w", context.Canceled)))
	assert.False(t, IsTimeout(errors.New("boom")))
}
