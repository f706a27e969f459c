package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/events"
)

// AuditService logs session lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionLoggedIn, a.handleLoggedIn)
	a.dispatcher.Subscribe(events.EventSessionLoggedOut, a.handleLoggedOut)
	a.dispatcher.Subscribe(events.EventSessionExpired, a.handleExpired)
}

func (a *AuditService) handleLoggedIn(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("namespace", string(event.Namespace)),
	}
	if payload, ok := event.Payload.(events.LoggedInPayload); ok {
		fields = append(fields,
			zap.String("actor_id", payload.ActorID),
			zap.Time("expires_at", payload.ExpiresAt))
	}
	a.logger.Debug("SessionLoggedIn", fields...)
	return nil
}

func (a *AuditService) handleLoggedOut(_ context.Context, event events.Event) error {
	a.logger.Debug("SessionLoggedOut",
		zap.String("event_id", event.ID),
		zap.String("namespace", string(event.Namespace)),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleExpired(_ context.Context, event events.Event) error {
	a.logger.Info("SessionExpired",
		zap.String("event_id", event.ID),
		zap.String("namespace", string(event.Namespace)))
	return nil
}
