package cache

import (
	"context"
	"sync"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"

	"github.com/coder/quartz"
)

var _ core.Cache[int64] = (*MemoryCache)(nil)

type countEntry struct {
	value     int64
	expiresAt time.Time
}

// MemoryCache holds gauge counts for a single server instance. Expired
// counts read as misses and are dropped on the next write.
type MemoryCache struct {
	mu     sync.RWMutex
	counts map[string]countEntry
	clock  quartz.Clock
}

func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(quartz.NewReal())
}

// NewMemoryCacheWithClock creates a cache whose expiry follows clock
func NewMemoryCacheWithClock(clock quartz.Clock) *MemoryCache {
	return &MemoryCache{
		counts: make(map[string]countEntry),
		clock:  clock,
	}
}

func (m *MemoryCache) Get(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.counts[key]
	if !ok || !m.clock.Now().Before(entry.expiresAt) {
		return 0, ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for k, entry := range m.counts {
		if !now.Before(entry.expiresAt) {
			delete(m.counts, k)
		}
	}
	m.counts[key] = countEntry{value: value, expiresAt: now.Add(ttl)}
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.counts, key)
	return nil
}

// Len reports how many counts are held, expired ones included
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.counts)
}

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.counts)
	return nil
}

func (m *MemoryCache) Health(ctx context.Context) error {
	return nil
}

// GetWithFetch offers no stampede protection; concurrent misses each count.
func (m *MemoryCache) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (int64, error),
) (int64, error) {
	return getWithFetch(ctx, m, key, ttl, fetchFunc)
}
