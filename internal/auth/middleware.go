package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller of the mock backend.
type Principal struct {
	Account *domain.Account
	Claims  *IssuedClaims
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return errorutil.NewUnauthorized("No token provided, authorization denied")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errorutil.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return errorutil.NewUnauthorized("Token is not valid")
	}

	account, err := m.accounts.GetByID(c.UserContext(), claims.Role, claims.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorutil.NewUnauthorized("account not found")
		}
		return err
	}
	if !account.Active {
		return errorutil.NewForbidden("account is deactivated")
	}

	c.Locals(principalKey, &Principal{Account: account, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
