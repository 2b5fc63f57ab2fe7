package bootstrap

import (
	"github.com/MOOQU/CF-License-Server/internal/config"
	"github.com/MOOQU/CF-License-Server/internal/core"
	"github.com/MOOQU/CF-License-Server/internal/services"
	"github.com/MOOQU/CF-License-Server/internal/store"

	"github.com/coder/quartz"
)

// serviceSet holds the business services built on one store
type serviceSet struct {
	sessions *services.SessionService
	trials   *services.TrialService
	licenses *services.LicenseService
	admin    *services.AdminService
	sweeper  *services.HistorySweeper
}

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	clock quartz.Clock,
	auditService *services.AuditService,
	prometheusMetrics core.Recorder,
) serviceSet {
	sessions := services.NewSessionService(db, cfg, clock, prometheusMetrics)
	sweeper := services.NewHistorySweeper(db, cfg, clock, prometheusMetrics)

	return serviceSet{
		sessions: sessions,
		trials:   services.NewTrialService(db, cfg, sessions, auditService, prometheusMetrics),
		licenses: services.NewLicenseService(db, cfg, sessions, auditService, prometheusMetrics),
		admin:    services.NewAdminService(db, cfg, sessions, sweeper, auditService),
		sweeper:  sweeper,
	}
}
