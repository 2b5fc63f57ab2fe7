package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterRedis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitStoreType defines the type of rate limit store
type RateLimitStoreType string

const (
	// RateLimitStoreMemory uses in-memory storage (single instance only)
	RateLimitStoreMemory RateLimitStoreType = "memory"
	// RateLimitStoreRedis uses Redis storage shared by every instance
	RateLimitStoreRedis RateLimitStoreType = "redis"
)

// statusRateLimited is the body status clients see when throttled
const statusRateLimited = "rate_limited"

// RateLimitConfig holds the configuration for one limiter instance
type RateLimitConfig struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration // Expired key sweep interval
	StoreType         RateLimitStoreType
	Prefix            string // Key prefix, one per route group

	// RedisClient is shared with other limiters and owned by the caller
	RedisClient *redis.Client

	// AuditService records throttled requests when set
	AuditService *services.AuditService
}

// NewRateLimiter creates a per-IP rate limiter backed by the configured store
func NewRateLimiter(config RateLimitConfig) (gin.HandlerFunc, error) {
	if config.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("requests per minute must be positive, got %d", config.RequestsPerMinute)
	}

	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  int64(config.RequestsPerMinute),
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = "ratelimit"
	}
	options := limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: config.CleanupInterval,
	}

	var store limiter.Store
	switch config.StoreType {
	case RateLimitStoreRedis:
		if config.RedisClient == nil {
			return nil, errors.New("redis rate limit store requires a redis client")
		}
		var err error
		store, err = limiterRedis.NewStoreWithOptions(config.RedisClient, options)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
	default:
		store = memory.NewStoreWithOptions(options)
	}

	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		if config.AuditService != nil {
			config.AuditService.Log(c.Request.Context(), services.AuditLogEntry{
				EventType: models.EventRateLimitExceeded,
				Severity:  models.SeverityWarning,
				Action:    "Rate limit exceeded",
				Details: models.AuditDetails{
					"limit_per_minute": config.RequestsPerMinute,
					"prefix":           prefix,
				},
				Success:       false,
				RequestPath:   c.Request.URL.Path,
				RequestMethod: c.Request.Method,
				UserAgent:     c.Request.UserAgent(),
			})
		}

		c.Header("Retry-After", "60")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"status": statusRateLimited})
	})), nil
}

// NewMemoryRateLimiter creates an in-memory rate limiter (single instance)
func NewMemoryRateLimiter(requestsPerMinute int) (gin.HandlerFunc, error) {
	return NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		StoreType:         RateLimitStoreMemory,
		CleanupInterval:   5 * time.Minute,
	})
}
