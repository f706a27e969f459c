package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

// RequireNamespace ensures the principal belongs to one of the allowed portals.
func RequireNamespace(allowed ...domain.NamespaceName) fiber.Handler {
	allowedSet := make(map[domain.NamespaceName]struct{}, len(allowed))
	for _, ns := range allowed {
		allowedSet[ns] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Account == nil {
			return errorutil.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Account.Namespace]; !exists {
			return errorutil.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
