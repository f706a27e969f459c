package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/api/http/handlers"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/domain"
)

// APIPrefix is the mount point of every portal route.
const APIPrefix = "/api"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *backend.AuthService
	Work           *backend.WorkService
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)

	api := app.Group(APIPrefix)
	projects := handlers.NewProjectHandler(cfg.Work)
	tasks := handlers.NewTaskHandler(cfg.Work)

	// Public routes go first: fiber matches in registration order, and the
	// protected groups below install their middleware on the whole prefix.
	otp := handlers.NewOTPHandler(cfg.Auth)
	api.Post(domain.Client.Path("send-otp"), otp.SendOTP)
	api.Post(domain.Client.Path("verify-otp"), otp.VerifyOTP)

	protected := make(map[domain.NamespaceName]fiber.Router, len(domain.Namespaces()))
	for _, ns := range domain.Namespaces() {
		h := handlers.NewAuthHandler(ns, cfg.Auth)
		if ns.Name != domain.NamespaceClient {
			api.Post(ns.Path("login"), h.Login)
		}
		group := api.Group(ns.APIPrefix, cfg.AuthMiddleware.Handle, auth.RequireNamespace(ns.Name))
		group.Get("/profile", h.Profile)
		group.Post("/logout", h.Logout)
		protected[ns.Name] = group
	}

	protected[domain.NamespacePM].Get("/projects", projects.List)
	protected[domain.NamespacePM].Post("/projects/:id/attachments", projects.UploadAttachment)
	protected[domain.NamespaceEmployee].Get("/tasks", tasks.List)
	protected[domain.NamespaceEmployee].Patch("/tasks/:id/status", tasks.UpdateStatus)
	protected[domain.NamespaceClient].Get("/projects", projects.List)
}
