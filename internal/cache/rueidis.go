package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"

	"github.com/redis/rueidis"
)

var _ core.Cache[int64] = (*RueidisCache)(nil)

// RueidisCache keeps gauge counts in Redis as plain integers so several
// server instances report the same numbers without each counting rows.
type RueidisCache struct {
	client    rueidis.Client
	keyPrefix string
}

// NewRueidisCache connects to Redis and fails fast when PING does not answer.
func NewRueidisCache(
	ctx context.Context,
	addr, password string,
	db int,
	keyPrefix string,
) (*RueidisCache, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		Password:     password,
		SelectDB:     db,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	c := &RueidisCache{client: client, keyPrefix: keyPrefix}
	if err := c.Health(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

func (r *RueidisCache) key(name string) string {
	return r.keyPrefix + name
}

func (r *RueidisCache) Get(ctx context.Context, key string) (int64, error) {
	raw, err := r.client.Do(ctx, r.client.B().Get().Key(r.key(key)).Build()).ToString()
	switch {
	case rueidis.IsRedisNil(err):
		return 0, ErrCacheMiss
	case err != nil:
		return 0, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return parseCount(raw)
}

func (r *RueidisCache) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	cmd := r.client.B().Set().
		Key(r.key(key)).
		Value(strconv.FormatInt(value, 10)).
		Ex(ttl).
		Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Do(ctx, r.client.B().Del().Key(r.key(key)).Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisCache) Close() error {
	r.client.Close()
	return nil
}

func (r *RueidisCache) Health(ctx context.Context) error {
	if err := r.client.Do(ctx, r.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RueidisCache) GetWithFetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (int64, error),
) (int64, error) {
	return getWithFetch(ctx, r, key, ttl, fetchFunc)
}
