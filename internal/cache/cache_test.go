package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "devices:trial", 42, time.Minute))

	value, err := cache.Get(ctx, "devices:trial")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	cache := NewMemoryCache()

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	cache := NewMemoryCacheWithClock(mClock)

	require.NoError(t, cache.Set(ctx, "sessions:open", 7, 10*time.Second))

	mClock.Advance(9 * time.Second).MustWait(ctx)
	value, err := cache.Get(ctx, "sessions:open")
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)

	mClock.Advance(time.Second).MustWait(ctx)
	_, err = cache.Get(ctx, "sessions:open")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_SetDropsExpiredCounts(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	cache := NewMemoryCacheWithClock(mClock)

	require.NoError(t, cache.Set(ctx, "devices:trial", 3, 10*time.Second))
	require.NoError(t, cache.Set(ctx, "devices:licensed", 4, time.Minute))
	assert.Equal(t, 2, cache.Len())

	mClock.Advance(10 * time.Second).MustWait(ctx)
	require.NoError(t, cache.Set(ctx, "sessions:open", 1, time.Minute))
	assert.Equal(t, 2, cache.Len())

	value, err := cache.Get(ctx, "devices:licensed")
	require.NoError(t, err)
	assert.Equal(t, int64(4), value)
}

func TestMemoryCache_DeleteAndClose(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, cache.Set(ctx, "b", 2, time.Minute))

	require.NoError(t, cache.Delete(ctx, "a"))
	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Close())
	_, err = cache.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, cache.Health(ctx))
}

func TestMemoryCache_GetWithFetch(t *testing.T) {
	ctx := context.Background()
	mClock := quartz.NewMock(t)
	cache := NewMemoryCacheWithClock(mClock)

	calls := 0
	fetch := func(ctx context.Context, key string) (int64, error) {
		calls++
		return int64(calls * 10), nil
	}

	value, err := cache.GetWithFetch(ctx, "devices:online", 30*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(10), value)

	value, err = cache.GetWithFetch(ctx, "devices:online", 30*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(10), value, "second call should be served from cache")

	mClock.Advance(30 * time.Second).MustWait(ctx)
	value, err = cache.GetWithFetch(ctx, "devices:online", 30*time.Second, fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(20), value)
	assert.Equal(t, 2, calls)
}

func TestMemoryCache_GetWithFetch_FetchError(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	expectedErr := errors.New("database unavailable")

	_, err := cache.GetWithFetch(ctx, "k", time.Minute,
		func(ctx context.Context, key string) (int64, error) {
			return 0, expectedErr
		})
	assert.ErrorIs(t, err, expectedErr)

	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss, "failed fetch must not populate the cache")
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	var fetches atomic.Int64
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cache.Set(ctx, "shared", int64(i), time.Minute)
			_, _ = cache.GetWithFetch(ctx, "other", time.Minute,
				func(ctx context.Context, key string) (int64, error) {
					fetches.Add(1)
					return 1, nil
				})
		}(i)
	}
	wg.Wait()

	_, err := cache.Get(ctx, "shared")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fetches.Load(), int64(1))
}
