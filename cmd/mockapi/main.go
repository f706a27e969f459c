package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/devxankit/crm-saas/internal/api/http"
	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	server, err := httptransport.NewServer(ctx, *cfg, logger, metrics)
	if err != nil {
		logger.Fatal("failed to build mock backend", zap.Error(err))
	}
	logger.Info("mock backend seeded",
		zap.String("pm_email", server.Fixtures.PM.Email),
		zap.String("employee_email", server.Fixtures.Employee.Email),
		zap.String("client_phone", server.Fixtures.Client.Phone),
		zap.String("project_id", server.Fixtures.Project.ID),
		zap.String("task_id", server.Fixtures.Task.ID),
	)

	go func() {
		logger.Info("mock backend listening", zap.String("addr", cfg.Mock.Addr()))
		if err := server.App.Listen(cfg.Mock.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = server.App.Shutdown()
	requests, failures := metrics.Snapshot()
	logger.Info("request totals", zap.Any("requests", requests), zap.Any("errors", failures))
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
