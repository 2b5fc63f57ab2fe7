package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/MOOQU/CF-License-Server/internal/cache"
	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/metrics"
)

const metricsCachePrefix = "cf-license:metrics:"

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) core.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return recorder
}

// initializeMetricsCache initializes the gauge count cache based on configuration
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	var metricsCache core.Cache[int64]

	switch cfg.MetricsCacheType {
	case config.MetricsCacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache(
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			metricsCachePrefix,
			cfg.MetricsCacheClientTTL,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis-aside metrics cache: %w", err)
		}
		if err := c.Health(ctx); err != nil {
			c.Close()
			return nil, nil, fmt.Errorf("redis-aside metrics cache is unhealthy: %w", err)
		}
		metricsCache = c
		log.Printf(
			"Metrics cache: redis-aside (addr=%s, db=%d, client_ttl=%s)",
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.MetricsCacheClientTTL,
		)

	case config.MetricsCacheTypeRedis:
		c, err := cache.NewRueidisCache(
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			metricsCachePrefix,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis metrics cache: %w", err)
		}
		metricsCache = c
		log.Printf("Metrics cache: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)

	default: // memory
		metricsCache = cache.NewMemoryCache()
		log.Println("Metrics cache: memory (single instance only)")
	}

	return metricsCache, metricsCache.Close, nil
}
