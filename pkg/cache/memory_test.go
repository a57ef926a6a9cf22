package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "eth", Value: 42.5}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "eth", Value: 42.5}, got)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()

	var got payload
	assert.ErrorIs(t, mc.Get(context.Background(), "missing", &got), ErrCacheMiss)
}

func TestMemoryCacheLazyExpiry(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "btc"}, 300*time.Second))

	// Just under the TTL: still fresh.
	now = now.Add(299 * time.Second)
	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))

	// Exactly at the TTL: treated as absent.
	now = now.Add(time.Second)
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "btc"}, 0))

	now = now.Add(24 * time.Hour)
	var got payload
	assert.NoError(t, mc.Get(ctx, "k", &got))
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))

	// Touch "a" so "b" becomes least recently used.
	now = now.Add(time.Second)
	var n int
	require.NoError(t, mc.Get(ctx, "a", &n))

	now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.NoError(t, mc.Get(ctx, "a", &n))
	assert.ErrorIs(t, mc.Get(ctx, "b", &n), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &n))
}
