package bootstrap

import (
	"log"
	"net/http"

	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/metrics"
	"github.com/MOOQU/CF-License-Server/internal/middleware"
	"github.com/MOOQU/CF-License-Server/internal/services"
	"github.com/MOOQU/CF-License-Server/internal/store"
	"github.com/MOOQU/CF-License-Server/internal/util"
	"github.com/MOOQU/CF-License-Server/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	prometheusMetrics core.Recorder,
	auditService *services.AuditService,
	rateLimitRedisClient *redis.Client,
) *gin.Engine {
	setupGinMode(cfg)
	r := gin.New()

	r.Use(metrics.HTTPMetricsMiddleware(prometheusMetrics))
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())

	r.GET("/health", createHealthCheckHandler(db))
	setupMetricsEndpoint(r, cfg)

	rateLimiters, err := setupRateLimiting(cfg, auditService, rateLimitRedisClient)
	if err != nil {
		log.Fatalf("Failed to set up rate limiting: %v", err)
	}

	setupAllRoutes(r, h, rateLimiters)
	logServerStartup(cfg)

	return r
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	switch {
	case !cfg.MetricsEnabled:
		log.Printf("Prometheus metrics disabled")
	case cfg.MetricsToken != "":
		log.Printf("Prometheus metrics enabled at /metrics with Bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		log.Printf("Prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(r *gin.Engine, h handlerSet, rateLimiters rateLimitMiddlewares) {
	// Client routes, called by the desktop application
	client := r.Group("")
	client.Use(rateLimiters.client)
	{
		client.POST("/heartbeat", h.client.Heartbeat)
		client.POST("/request_trial", h.client.RequestTrial)
		client.POST("/check_trial", h.client.CheckTrial)
		client.POST("/check_license", h.client.CheckLicense)
		client.POST("/start_session", h.client.StartSession)
		client.POST("/stop_session", h.client.StopSession)
	}

	// Admin routes
	admin := r.Group("")
	admin.Use(rateLimiters.admin)
	{
		admin.POST("/ban", h.admin.Ban)
		admin.POST("/unban", h.admin.Unban)
		admin.GET("/userslist", h.admin.ListUsers)
		admin.GET("/user_session_history", h.admin.SessionHistory)
		admin.POST("/clear_user_logs", h.admin.ClearUserLogs)
		admin.POST("/clear_all_logs", h.admin.ClearAllLogs)
		admin.POST("/clear_logs_days", h.admin.ClearLogsDays)
		admin.POST("/usersgen_license", h.admin.GenerateLicense)
		admin.POST("/usersdelete", h.admin.DeleteUser)

		admin.GET("/admin/audit", h.audit.ListAuditLogs)
		admin.GET("/admin/audit/stats", h.audit.GetAuditLogStats)
		admin.GET("/admin/audit/export", h.audit.ExportAuditLogs)
	}
}

// healthCheck godoc
//
//	@Summary		Health check
//	@Description	Check server and database health status
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	object{status=string,database=string,build=version.Info}	"Service is healthy"
//	@Failure		503	{object}	object{status=string,database=string}	"Service is unhealthy"
//	@Router			/health [get]
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(c.Request.Context()); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
				"build":    version.Get(),
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	mode := ginModeMap[cfg.IsProduction]
	gin.SetMode(mode)
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("License server %s starting on %s", version.Get().Version, cfg.ServerAddr)
	log.Printf(
		"Trial budget: %s, online threshold: %s, heartbeat interval: %s",
		cfg.TrialDuration,
		cfg.OnlineThreshold,
		cfg.HeartbeatInterval,
	)
	log.Printf(
		"Session history: cap %d entries, retention %d days, sweep every %s",
		cfg.SessionHistoryCap,
		cfg.HistoryRetentionDays,
		cfg.HistorySweepInterval,
	)
}
