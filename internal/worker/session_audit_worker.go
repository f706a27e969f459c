package worker

import (
	"github.com/devxankit/crm-saas/internal/service"
)

// StartSessionAuditWorker registers session event handlers.
func StartSessionAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
