package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Users      []string `json:"users"`
	TotalPages int      `json:"totalPages"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "likers:P1:1:20", entry{Users: []string{"u1"}, TotalPages: 1}, time.Minute))

	var got entry
	require.NoError(t, c.Get(ctx, "likers:P1:1:20", &got))
	assert.Equal(t, entry{Users: []string{"u1"}, TotalPages: 1}, got)

	require.NoError(t, c.Delete(ctx, "likers:P1:1:20"))
	assert.ErrorIs(t, c.Get(ctx, "likers:P1:1:20", &got), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", 1, -time.Second))

	var v int
	assert.ErrorIs(t, c.Get(ctx, "k", &v), ErrCacheMiss)
}

func TestMemoryCacheInvalidatePattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	for _, k := range []string{"likers:P1:1:20", "likers:P1:2:20", "likers:P2:1:20"} {
		require.NoError(t, c.Set(ctx, k, k, time.Minute))
	}

	require.NoError(t, c.InvalidatePattern(ctx, "likers:P1:*"))

	var v string
	assert.ErrorIs(t, c.Get(ctx, "likers:P1:1:20", &v), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "likers:P1:2:20", &v), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "likers:P2:1:20", &v))
}
