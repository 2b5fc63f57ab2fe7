package metrics

import (
	"context"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"
)

// CacheWrapper provides a read-through cache for gauge counts so several
// instances polling the same database do not each run the count queries.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetDevicesCount returns the number of records of the given kind
func (m *CacheWrapper) GetDevicesCount(
	ctx context.Context,
	kind string,
	ttl time.Duration,
) (int64, error) {
	return m.cache.GetWithFetch(ctx, "devices:"+kind, ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountDevicesByKind(ctx, kind)
		},
	)
}

// GetOnlineDevicesCount returns the number of records seen at or after since.
// A cached count may lag the window by up to ttl.
func (m *CacheWrapper) GetOnlineDevicesCount(
	ctx context.Context,
	since int64,
	ttl time.Duration,
) (int64, error) {
	return m.cache.GetWithFetch(ctx, "devices:online", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountOnlineDevices(ctx, since)
		},
	)
}

// GetOpenSessionsCount returns the number of currently open sessions
func (m *CacheWrapper) GetOpenSessionsCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.cache.GetWithFetch(ctx, "sessions:open", ttl,
		func(ctx context.Context, _ string) (int64, error) {
			return m.store.CountOpenSessions(ctx)
		},
	)
}
