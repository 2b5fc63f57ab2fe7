package bootstrap

import (
	"fmt"
	"log"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/middleware"
	"github.com/MOOQU/CF-License-Server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitMiddlewares holds the limiters for the two route groups
type rateLimitMiddlewares struct {
	client gin.HandlerFunc
	admin  gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration.
// redisClient may be nil when the memory store is used.
func setupRateLimiting(
	cfg *config.Config,
	auditService *services.AuditService,
	redisClient *redis.Client,
) (rateLimitMiddlewares, error) {
	if !cfg.EnableRateLimit {
		noOp := func(c *gin.Context) { c.Next() }
		log.Println("Rate limiting disabled")
		return rateLimitMiddlewares{client: noOp, admin: noOp}, nil
	}

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	log.Printf("Rate limiting enabled (store: %s)", storeType)

	createLimiter := func(requestsPerMinute int, prefix string) (gin.HandlerFunc, error) {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			CleanupInterval:   cfg.RateLimitCleanupInterval,
			StoreType:         storeType,
			Prefix:            prefix,
			RedisClient:       redisClient,
			AuditService:      auditService,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s rate limiter: %w", prefix, err)
		}
		return limiter, nil
	}

	client, err := createLimiter(cfg.ClientRateLimit, "ratelimit:client")
	if err != nil {
		return rateLimitMiddlewares{}, err
	}
	admin, err := createLimiter(cfg.AdminRateLimit, "ratelimit:admin")
	if err != nil {
		return rateLimitMiddlewares{}, err
	}
	return rateLimitMiddlewares{client: client, admin: admin}, nil
}
