package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/events"
	"github.com/devxankit/crm-saas/internal/observability"
	"github.com/devxankit/crm-saas/internal/persistence"
	"github.com/devxankit/crm-saas/internal/service"
	"github.com/devxankit/crm-saas/internal/worker"
)

// app is the state every subcommand runs against.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage *persistence.Storage
	metrics *observability.Metrics
	portals *service.Portals
}

func newRootCommand(a *app) *cobra.Command {
	var baseURL string

	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Log in to the CRM portals and call their APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context(), baseURL)
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides API_BASE_URL)")

	root.AddCommand(
		newLoginCommand(a),
		newOTPCommand(a),
		newLogoutCommand(a),
		newStatusCommand(a),
		newProfileCommand(a),
		newProjectsCommand(a),
		newTasksCommand(a),
		newUploadCommand(a),
		newRequestCommand(a),
	)
	return root
}

func (a *app) open(ctx context.Context, baseURL string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	storage, err := persistence.OpenStorage(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartSessionAuditWorker(service.NewAuditService(dispatcher, logger.Named("audit")))

	portals, err := service.NewPortals(service.PortalDependencies{
		Store:      storage.Repo,
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout(),
		Logger:     logger,
		Metrics:    metrics,
		Dispatcher: dispatcher,
	})
	if err != nil {
		storage.Close()
		return err
	}

	a.cfg, a.logger, a.storage, a.metrics, a.portals = cfg, logger, storage, metrics, portals
	return nil
}

// close releases storage and reports client request counts. Safe to call
// when open never ran or failed.
func (a *app) close() {
	if a.logger != nil {
		requests, failures := a.metrics.Snapshot()
		a.logger.Debug("client requests", zap.Any("requests", requests), zap.Any("failures", failures))
		_ = a.logger.Sync()
	}
	a.storage.Close()
	a.storage = nil
}

func (a *app) session(role string) (*service.Session, error) {
	ns, err := domain.LookupNamespace(role)
	if err != nil {
		return nil, err
	}
	return a.portals.Session(ns.Name)
}

func printJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

func roleNames() []string {
	names := make([]string, 0, len(domain.Namespaces()))
	for _, ns := range domain.Namespaces() {
		names = append(names, string(ns.Name))
	}
	return names
}
