package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

// AuthHandler exposes login, profile and logout for one portal.
type AuthHandler struct {
	ns   domain.Namespace
	auth *backend.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(ns domain.Namespace, authService *backend.AuthService) *AuthHandler {
	return &AuthHandler{ns: ns, auth: authService}
}

// Login handles POST /<role>/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload")
	}

	session, err := h.auth.Login(c.UserContext(), h.ns.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Login successful", loginData(h.ns, session)))
}

// Profile handles GET /<role>/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.OK(fiber.Map{h.ns.ProfileField: principal.Account.Profile()}))
}

// Logout handles POST /<role>/logout. Tokens are stateless, so this only acknowledges.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(dto.OKMessage("Logged out successfully", nil))
}

func loginData(ns domain.Namespace, session *backend.Session) fiber.Map {
	return fiber.Map{
		"token":         session.Token,
		"expiresAt":     session.ExpiresAt,
		ns.ProfileField: session.Account.Profile(),
	}
}
