package bootstrap

import (
	"errors"
	"fmt"

	"github.com/MOOQU/CF-License-Server/internal/config"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateRateLimitConfig(cfg); err != nil {
		return fmt.Errorf("invalid rate limit configuration: %w", err)
	}
	return nil
}

// validateRateLimitConfig checks limits and the Redis address a shared store needs
func validateRateLimitConfig(cfg *config.Config) error {
	if !cfg.EnableRateLimit {
		return nil
	}
	if cfg.ClientRateLimit <= 0 || cfg.AdminRateLimit <= 0 {
		return fmt.Errorf(
			"CLIENT_RATE_LIMIT and ADMIN_RATE_LIMIT must be positive (got %d, %d)",
			cfg.ClientRateLimit,
			cfg.AdminRateLimit,
		)
	}
	if cfg.RateLimitStore == config.RateLimitStoreRedis && cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required when RATE_LIMIT_STORE=redis")
	}
	return nil
}
