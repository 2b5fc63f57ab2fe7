package bootstrap

import (
	"github.com/MOOQU/CF-License-Server/internal/handlers"
	"github.com/MOOQU/CF-License-Server/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	client *handlers.ClientHandler
	admin  *handlers.AdminHandler
	audit  *handlers.AuditHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	sessions *services.SessionService,
	trials *services.TrialService,
	licenses *services.LicenseService,
	admin *services.AdminService,
	auditService *services.AuditService,
) handlerSet {
	return handlerSet{
		client: handlers.NewClientHandler(sessions, trials, licenses),
		admin:  handlers.NewAdminHandler(admin, licenses),
		audit:  handlers.NewAuditHandler(auditService),
	}
}
