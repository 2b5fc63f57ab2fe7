package bootstrap

import (
	"context"
	"net/http"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/services"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/appleboy/graceful"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Clock  quartz.Clock

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      core.Recorder
	MetricsCache         core.Cache[int64]
	MetricsCacheCloser   func() error
	RateLimitRedisClient *redis.Client

	// Services
	AuditService   *services.AuditService
	SessionService *services.SessionService
	TrialService   *services.TrialService
	LicenseService *services.LicenseService
	AdminService   *services.AdminService
	HistorySweeper *services.HistorySweeper

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{
		Config: cfg,
		Clock:  quartz.NewReal(),
	}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// Repair opens the store, runs the repair pass once and closes it again
func Repair(ctx context.Context, cfg *config.Config) (store.RepairReport, error) {
	if err := validateAllConfiguration(cfg); err != nil {
		return store.RepairReport{}, err
	}

	db, err := initializeDatabase(ctx, cfg)
	if err != nil {
		return store.RepairReport{}, err
	}
	defer db.Close()

	return repairDatabase(ctx, cfg, db)
}

// initializeInfrastructure sets up database, metrics, cache, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}
	if _, err := repairDatabase(ctx, app.Config, app.DB); err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	// Audit service (required by other services)
	app.AuditService = services.NewAuditService(
		app.DB,
		app.Clock,
		app.Config.EnableAuditLogging,
		app.Config.AuditLogBufferSize,
	)

	svc := initializeServices(
		app.Config,
		app.DB,
		app.Clock,
		app.AuditService,
		app.MetricsRecorder,
	)
	app.SessionService = svc.sessions
	app.TrialService = svc.trials
	app.LicenseService = svc.licenses
	app.AdminService = svc.admin
	app.HistorySweeper = svc.sweeper
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.SessionService,
		app.TrialService,
		app.LicenseService,
		app.AdminService,
		app.AuditService,
	)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.AuditService,
		app.RateLimitRedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addHistorySweepJob(m, app.HistorySweeper)
	addAuditServiceShutdownJob(m, app.Config, app.AuditService)
	addAuditLogCleanupJob(m, app.Config, app.Clock, app.AuditService)
	addMetricsGaugeUpdateJob(
		m,
		app.Config,
		app.Clock,
		app.DB,
		app.MetricsRecorder,
		app.MetricsCache,
	)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addCacheCleanupJob(m, app.MetricsCacheCloser)
	addDatabaseCloseJob(m, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}
