package config

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes Validate
func validConfig() *Config {
	return &Config{
		RateLimitStore:       RateLimitStoreMemory,
		MetricsCacheType:     MetricsCacheTypeMemory,
		TrialDuration:        30 * time.Minute,
		OnlineThreshold:      120 * time.Second,
		SessionHistoryCap:    50,
		HistoryRetentionDays: 7,
		HistorySweepInterval: time.Hour,
		StoreTimeout:         5 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid memory store",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid redis store",
			mutate: func(c *Config) { c.RateLimitStore = RateLimitStoreRedis },
		},
		{
			name:        "invalid store - typo",
			mutate:      func(c *Config) { c.RateLimitStore = "reddis" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "reddis"`,
		},
		{
			name:        "invalid store - uppercase",
			mutate:      func(c *Config) { c.RateLimitStore = "MEMORY" },
			expectError: true,
			errorMsg:    `invalid RATE_LIMIT_STORE value: "MEMORY"`,
		},
		{
			name:        "invalid cache type",
			mutate:      func(c *Config) { c.MetricsCacheType = "memcached" },
			expectError: true,
			errorMsg:    `invalid METRICS_CACHE_TYPE value: "memcached"`,
		},
		{
			name: "redis-aside with redis address",
			mutate: func(c *Config) {
				c.MetricsCacheType = MetricsCacheTypeRedisAside
				c.RedisAddr = "localhost:6379"
			},
		},
		{
			name:        "redis-aside without redis address",
			mutate:      func(c *Config) { c.MetricsCacheType = MetricsCacheTypeRedisAside },
			expectError: true,
			errorMsg:    `METRICS_CACHE_TYPE="redis-aside" requires REDIS_ADDR`,
		},
		{
			name:        "zero trial duration",
			mutate:      func(c *Config) { c.TrialDuration = 0 },
			expectError: true,
			errorMsg:    "TRIAL_DURATION must be positive",
		},
		{
			name:        "zero online threshold",
			mutate:      func(c *Config) { c.OnlineThreshold = 0 },
			expectError: true,
			errorMsg:    "ONLINE_THRESHOLD must be positive",
		},
		{
			name:        "history cap below one",
			mutate:      func(c *Config) { c.SessionHistoryCap = 0 },
			expectError: true,
			errorMsg:    "SESSION_HISTORY_CAP must be at least 1",
		},
		{
			name:        "retention below one day",
			mutate:      func(c *Config) { c.HistoryRetentionDays = 0 },
			expectError: true,
			errorMsg:    "HISTORY_RETENTION_DAYS must be between 1 and 36500",
		},
		{
			name:        "retention beyond a century",
			mutate:      func(c *Config) { c.HistoryRetentionDays = 110000 },
			expectError: true,
			errorMsg:    "HISTORY_RETENTION_DAYS must be between 1 and 36500, got 110000",
		},
		{
			name:        "zero sweep interval",
			mutate:      func(c *Config) { c.HistorySweepInterval = 0 },
			expectError: true,
			errorMsg:    "HISTORY_SWEEP_INTERVAL must be positive",
		},
		{
			name:        "zero store timeout",
			mutate:      func(c *Config) { c.StoreTimeout = 0 },
			expectError: true,
			errorMsg:    "STORE_TIMEOUT must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDaysWindow(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, DaysWindow(7))
	assert.Equal(t, DaysWindow(MaxHistoryDays), DaysWindow(110000))
	assert.Positive(t, DaysWindow(math.MaxInt))
}

func TestRateLimitStoreConstants(t *testing.T) {
	assert.Equal(t, "memory", RateLimitStoreMemory)
	assert.Equal(t, "redis", RateLimitStoreRedis)
}

// TestLoadDefaults verifies the grant accounting defaults
func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.TrialDuration)
	assert.Equal(t, 120*time.Second, cfg.OnlineThreshold)
	assert.Equal(t, 50, cfg.SessionHistoryCap)
	assert.Equal(t, 7, cfg.HistoryRetentionDays)
	assert.Equal(t, 7*24*time.Hour, cfg.HistoryRetention())
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 30*time.Second, cfg.DBInitTimeout)
	require.NoError(t, cfg.Validate())
}

// TestLoadFromEnv verifies that values can be configured via environment
func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		check    func(t *testing.T, c *Config)
	}{
		{
			name:     "TRIAL_DURATION",
			envKey:   "TRIAL_DURATION",
			envValue: "2h",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 2*time.Hour, c.TrialDuration)
			},
		},
		{
			name:     "ONLINE_THRESHOLD",
			envKey:   "ONLINE_THRESHOLD",
			envValue: "90s",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 90*time.Second, c.OnlineThreshold)
			},
		},
		{
			name:     "SESSION_HISTORY_CAP",
			envKey:   "SESSION_HISTORY_CAP",
			envValue: "10",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 10, c.SessionHistoryCap)
			},
		},
		{
			name:     "invalid duration falls back to default",
			envKey:   "STORE_TIMEOUT",
			envValue: "soon",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 5*time.Second, c.StoreTimeout)
			},
		},
		{
			name:     "ENVIRONMENT production",
			envKey:   "ENVIRONMENT",
			envValue: "production",
			check: func(t *testing.T, c *Config) {
				assert.True(t, c.IsProduction)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envValue)
			tt.check(t, Load())
		})
	}
}
