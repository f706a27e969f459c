package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/api/http/handlers"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/observability"
)

// Server is a seeded mock backend ready to listen.
type Server struct {
	App      *fiber.App
	Fixtures *backend.Fixtures
}

// NewServer seeds fresh in-memory repositories and mounts every route on a fiber app.
func NewServer(ctx context.Context, cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repos := backend.NewRepositories()
	fixtures, err := backend.Seed(ctx, cfg.Mock, repos)
	if err != nil {
		return nil, fmt.Errorf("seed mock backend: %w", err)
	}

	authService := backend.NewAuthService(cfg.Mock, backend.AuthDependencies{
		AccountRepo: repos.Accounts,
		OTPRepo:     repos.OTPs,
	})
	workService := backend.NewWorkService(repos.Projects, repos.Tasks)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.Accounts)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
	})
	RegisterMiddlewares(app, logger, metrics, 30*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:           authService,
		Work:           workService,
		AuthMiddleware: authMiddleware,
	})
	return &Server{App: app, Fixtures: fixtures}, nil
}
