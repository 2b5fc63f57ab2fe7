package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/rueidisaside"
)

// Compile-time interface check.
var _ core.Cache[int64] = (*RueidisAsideCache)(nil)

// RueidisAsideCache stores int64 counts through rueidisaside, which keeps a
// client-side copy invalidated by Redis over RESP3 and collapses concurrent
// misses on one key into a single fetch.
type RueidisAsideCache struct {
	client    rueidisaside.CacheAsideClient
	keyPrefix string
	clientTTL time.Duration
}

// NewRueidisAsideCache creates the client. clientTTL bounds how long the
// local copy may be served without hearing from Redis.
func NewRueidisAsideCache(
	addr, password string,
	db int,
	keyPrefix string,
	clientTTL time.Duration,
) (*RueidisAsideCache, error) {
	client, err := rueidisaside.NewClient(rueidisaside.ClientOption{
		ClientOption: rueidis.ClientOption{
			InitAddress:       []string{addr},
			Password:          password,
			SelectDB:          db,
			CacheSizeEachConn: 16 * 1024 * 1024,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rueidisaside client: %w", err)
	}

	return &RueidisAsideCache{
		client:    client,
		keyPrefix: keyPrefix,
		clientTTL: clientTTL,
	}, nil
}

// Get never populates the key; a miss is reported as ErrCacheMiss.
func (r *RueidisAsideCache) Get(ctx context.Context, key string) (int64, error) {
	val, err := r.client.Get(ctx, r.clientTTL, r.keyPrefix+key,
		func(ctx context.Context, key string) (string, error) {
			return "", ErrCacheMiss
		},
	)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	if val == "" {
		return 0, ErrCacheMiss
	}
	return parseCount(val)
}

// GetWithFetch lets rueidisaside run fetchFunc at most once per key across
// concurrent callers and stores the result with ttl.
func (r *RueidisAsideCache) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (int64, error),
) (int64, error) {
	val, err := r.client.Get(ctx, ttl, r.keyPrefix+key,
		func(ctx context.Context, key string) (string, error) {
			value, err := fetchFunc(ctx, key)
			if err != nil {
				return "", err
			}
			return strconv.FormatInt(value, 10), nil
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get with fetch: %w", err)
	}
	return parseCount(val)
}

func (r *RueidisAsideCache) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	client := r.client.Client()
	cmd := client.B().Set().
		Key(r.keyPrefix + key).
		Value(strconv.FormatInt(value, 10)).
		Ex(ttl).
		Build()
	if err := client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisAsideCache) Delete(ctx context.Context, key string) error {
	client := r.client.Client()
	if err := client.Do(ctx, client.B().Del().Key(r.keyPrefix+key).Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisAsideCache) Close() error {
	r.client.Close()
	return nil
}

func (r *RueidisAsideCache) Health(ctx context.Context) error {
	client := r.client.Client()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func parseCount(val string) (int64, error) {
	value, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return value, nil
}
