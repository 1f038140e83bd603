package posts

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *FeedCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFeedCache(client, time.Minute)
}

func TestFeedCacheHit(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return map[string]int{"value": 42}, nil
	}

	var first map[string]int
	require.NoError(t, cache.Fetch(ctx, "page", &first, loader))
	require.Equal(t, 42, first["value"])
	require.Equal(t, 1, calls)

	var second map[string]int
	require.NoError(t, cache.Fetch(ctx, "page", &second, loader))
	require.Equal(t, 42, second["value"])
	require.Equal(t, 1, calls)
}

func TestFeedCacheBust(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	var value int
	require.NoError(t, cache.Fetch(ctx, "page", &value, loader))
	require.Equal(t, 1, value)

	cache.Bust(ctx)

	require.NoError(t, cache.Fetch(ctx, "page", &value, loader))
	require.Equal(t, 2, value)
}

func TestFeedCacheLoadSurvivesCallerCancel(t *testing.T) {
	cache := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var value int
	err := cache.Fetch(ctx, "page", &value, func(loadCtx context.Context) (any, error) {
		// The request that started the load goes away mid-flight; the
		// shared load must keep going for collapsed peers.
		cancel()
		if err := loadCtx.Err(); err != nil {
			return 0, err
		}
		return 9, nil
	})
	require.NoError(t, err)
	require.Equal(t, 9, value)
}

func TestFeedCacheNilDegradesToLoader(t *testing.T) {
	var cache *FeedCache
	ctx := context.Background()

	cache.Bust(ctx)

	var value int
	err := cache.Fetch(ctx, "page", &value, func(ctx context.Context) (any, error) {
		return 7, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, value)
}
