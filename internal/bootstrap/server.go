package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/metrics"
	"github.com/MOOQU/CF-License-Server/internal/models"
	"github.com/MOOQU/CF-License-Server/internal/services"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/appleboy/graceful"
	"github.com/coder/quartz"
	"github.com/redis/go-redis/v9"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, cfg *config.Config, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addHistorySweepJob runs the history retention sweeper until shutdown
func addHistorySweepJob(m *graceful.Manager, sweeper *services.HistorySweeper) {
	m.AddRunningJob(func(ctx context.Context) error {
		if err := sweeper.Run(ctx); err != nil {
			log.Printf("History sweeper stopped: %v", err)
			return err
		}
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addAuditServiceShutdownJob flushes buffered audit entries on shutdown
func addAuditServiceShutdownJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *services.AuditService,
) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down audit service...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.AuditShutdownTimeout)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down audit service: %v", err)
			return err
		}
		return nil
	})
}

// addDatabaseCloseJob closes the connection pool after everything else stopped
func addDatabaseCloseJob(m *graceful.Manager, db *store.Store) {
	m.AddShutdownJob(func() error {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
			return err
		}
		return nil
	})
}

// addAuditLogCleanupJob adds periodic audit log cleanup job
func addAuditLogCleanupJob(
	m *graceful.Manager,
	cfg *config.Config,
	clock quartz.Clock,
	auditService *services.AuditService,
) {
	if !cfg.EnableAuditLogging || cfg.AuditLogRetention <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		cleanup := func() {
			deleted, err := auditService.CleanupOldLogs(ctx, cfg.AuditLogRetention)
			switch {
			case err != nil && ctx.Err() == nil:
				log.Printf("Failed to cleanup old audit logs: %v", err)
			case deleted > 0:
				log.Printf("Cleaned up %d old audit logs", deleted)
			}
		}

		// Run cleanup immediately on startup
		cleanup()

		ticker := clock.NewTicker(24*time.Hour, "audit", "cleanup")
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cleanup()
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	clock quartz.Clock,
	db *store.Store,
	recorder core.Recorder,
	metricsCache core.Cache[int64],
) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled || metricsCache == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		updater := &gaugeUpdater{
			cache:           metrics.NewCacheWrapper(db, metricsCache),
			recorder:        recorder,
			clock:           clock,
			ttl:             cfg.MetricsGaugeUpdateInterval,
			onlineThreshold: cfg.OnlineThreshold,
			errors:          newErrorLogger(clock),
		}

		// Update immediately on startup
		updater.update(ctx)

		ticker := clock.NewTicker(cfg.MetricsGaugeUpdateInterval, "metrics", "gauges")
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				updater.update(ctx)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addCacheCleanupJob adds cache cleanup on shutdown
func addCacheCleanupJob(m *graceful.Manager, metricsCacheCloser func() error) {
	if metricsCacheCloser == nil {
		return
	}

	m.AddShutdownJob(func() error {
		if err := metricsCacheCloser(); err != nil {
			log.Printf("Error closing metrics cache: %v", err)
		} else {
			log.Println("Metrics cache closed")
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	mu              sync.Mutex
	clock           quartz.Clock
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger(clock quartz.Clock) *errorLogger {
	return &errorLogger{
		clock:           clock,
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows. It reports whether it logged.
func (e *errorLogger) logIfNeeded(operation string, err error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	lastTime, exists := e.lastErrorTimes[operation]
	if exists && now.Sub(lastTime) < e.rateLimitWindow {
		return false
	}

	log.Printf("Database query failed for %s: %v (further errors will be suppressed for %v)",
		operation, err, e.rateLimitWindow)
	e.lastErrorTimes[operation] = now
	return true
}

// gaugeUpdater refreshes the gauges from cache-backed counts.
// The cache TTL matches the update interval so instances share one query per interval.
type gaugeUpdater struct {
	cache           *metrics.CacheWrapper
	recorder        core.Recorder
	clock           quartz.Clock
	ttl             time.Duration
	onlineThreshold time.Duration
	errors          *errorLogger
}

func (g *gaugeUpdater) update(ctx context.Context) {
	for _, kind := range []models.AccountKind{models.KindTrial, models.KindLicensed} {
		op := "count_" + string(kind) + "_devices"
		count, err := g.cache.GetDevicesCount(ctx, string(kind), g.ttl)
		if err != nil {
			g.fail(op, err)
			continue
		}
		g.recorder.SetDevicesCount(string(kind), int(count))
	}

	since := g.clock.Now().Add(-g.onlineThreshold).Unix()
	online, err := g.cache.GetOnlineDevicesCount(ctx, since, g.ttl)
	if err != nil {
		g.fail("count_online_devices", err)
	} else {
		g.recorder.SetDevicesOnlineCount(int(online))
	}

	open, err := g.cache.GetOpenSessionsCount(ctx, g.ttl)
	if err != nil {
		g.fail("count_open_sessions", err)
	} else {
		g.recorder.SetOpenSessionsCount(int(open))
	}
}

func (g *gaugeUpdater) fail(operation string, err error) {
	g.recorder.RecordDatabaseQueryError(operation)
	g.errors.logIfNeeded(operation, err)
}
