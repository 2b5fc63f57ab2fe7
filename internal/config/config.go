package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Metrics cache type constants
const (
	MetricsCacheTypeMemory     = "memory"
	MetricsCacheTypeRedis      = "redis"
	MetricsCacheTypeRedisAside = "redis-aside"
)

type Config struct {
	// Server settings
	ServerAddr   string
	IsProduction bool

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Grant and session accounting
	TrialDuration        time.Duration // Usage budget of a trial grant
	OnlineThreshold      time.Duration // Max silence before a device counts as offline
	HeartbeatInterval    time.Duration // Interval clients are told to heartbeat at
	SessionHistoryCap    int           // Max session history entries kept per device
	HistoryRetentionDays int           // Age after which history entries are pruned
	HistorySweepInterval time.Duration // How often the history sweeper runs

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	ClientRateLimit          int    // Requests per minute per IP on client routes
	AdminRateLimit           int    // Requests per minute per IP on admin routes
	RateLimitCleanupInterval time.Duration

	// Redis (rate limiting and metrics cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string // Optional bearer token for /metrics
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration
	MetricsCacheType           string // "memory", "redis" or "redis-aside"
	MetricsCacheClientTTL      time.Duration

	// Audit logging
	EnableAuditLogging bool
	AuditLogBufferSize int
	AuditLogRetention  time.Duration

	// Timeouts
	DBInitTimeout         time.Duration
	StoreTimeout          time.Duration // Upper bound for a single store call
	RedisConnTimeout      time.Duration
	CacheInitTimeout      time.Duration
	ServerShutdownTimeout time.Duration
	AuditShutdownTimeout  time.Duration
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "license.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		IsProduction:   getEnv("ENVIRONMENT", "development") == "production",
		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		// Grant and session accounting
		TrialDuration:        getEnvDuration("TRIAL_DURATION", 30*time.Minute),
		OnlineThreshold:      getEnvDuration("ONLINE_THRESHOLD", 120*time.Second),
		HeartbeatInterval:    getEnvDuration("HEARTBEAT_INTERVAL", 60*time.Second),
		SessionHistoryCap:    getEnvInt("SESSION_HISTORY_CAP", 50),
		HistoryRetentionDays: getEnvInt("HISTORY_RETENTION_DAYS", 7),
		HistorySweepInterval: getEnvDuration("HISTORY_SWEEP_INTERVAL", time.Hour),

		// Rate limiting
		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		ClientRateLimit:          getEnvInt("CLIENT_RATE_LIMIT", 120),
		AdminRateLimit:           getEnvInt("ADMIN_RATE_LIMIT", 60),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// Metrics
		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 30*time.Second),
		MetricsCacheType:           getEnv("METRICS_CACHE_TYPE", MetricsCacheTypeMemory),
		MetricsCacheClientTTL:      getEnvDuration("METRICS_CACHE_CLIENT_TTL", 10*time.Second),

		// Audit logging
		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogBufferSize: getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),
		AuditLogRetention:  getEnvDuration("AUDIT_LOG_RETENTION", 90*24*time.Hour),

		// Timeouts
		DBInitTimeout:         getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),
		StoreTimeout:          getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		RedisConnTimeout:      getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),
		CacheInitTimeout:      getEnvDuration("CACHE_INIT_TIMEOUT", 5*time.Second),
		ServerShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		AuditShutdownTimeout:  getEnvDuration("AUDIT_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// MaxHistoryDays bounds every day-count window. Larger values would
// overflow time.Duration.
const MaxHistoryDays = 36500

// HistoryRetention returns the retention window as a duration
func (c *Config) HistoryRetention() time.Duration {
	return DaysWindow(c.HistoryRetentionDays)
}

// DaysWindow converts a day count to a duration, saturating at MaxHistoryDays
func DaysWindow(days int) time.Duration {
	days = min(days, MaxHistoryDays)
	return time.Duration(days) * 24 * time.Hour
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE value: %q (must be %q or %q)",
			c.RateLimitStore, RateLimitStoreMemory, RateLimitStoreRedis,
		)
	}

	switch c.MetricsCacheType {
	case MetricsCacheTypeMemory:
	case MetricsCacheTypeRedis, MetricsCacheTypeRedisAside:
		if c.RedisAddr == "" {
			return fmt.Errorf("METRICS_CACHE_TYPE=%q requires REDIS_ADDR", c.MetricsCacheType)
		}
	default:
		return fmt.Errorf(
			"invalid METRICS_CACHE_TYPE value: %q (must be memory, redis or redis-aside)",
			c.MetricsCacheType,
		)
	}

	if c.TrialDuration <= 0 {
		return errors.New("TRIAL_DURATION must be positive")
	}
	if c.OnlineThreshold <= 0 {
		return errors.New("ONLINE_THRESHOLD must be positive")
	}
	if c.SessionHistoryCap < 1 {
		return fmt.Errorf("SESSION_HISTORY_CAP must be at least 1, got %d", c.SessionHistoryCap)
	}
	if c.HistoryRetentionDays < 1 || c.HistoryRetentionDays > MaxHistoryDays {
		return fmt.Errorf(
			"HISTORY_RETENTION_DAYS must be between 1 and %d, got %d",
			MaxHistoryDays, c.HistoryRetentionDays,
		)
	}
	if c.HistorySweepInterval <= 0 {
		return errors.New("HISTORY_SWEEP_INTERVAL must be positive")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
