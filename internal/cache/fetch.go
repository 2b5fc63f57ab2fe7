package cache

import (
	"context"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/core"
)

// getWithFetch serves a cached count or runs fetchFunc and stores its result
func getWithFetch(
	ctx context.Context,
	c core.Cache[int64],
	key string,
	ttl time.Duration,
	fetchFunc func(ctx context.Context, key string) (int64, error),
) (int64, error) {
	if value, err := c.Get(ctx, key); err == nil {
		return value, nil
	}

	value, err := fetchFunc(ctx, key)
	if err != nil {
		return 0, err
	}

	// A failed write only costs the next caller a recount
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}
