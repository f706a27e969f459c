package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/events"
	"github.com/devxankit/crm-saas/internal/session"
)

var (
	// ErrMissingToken is returned when a login response carries no token.
	ErrMissingToken = errors.New("login response did not include a token")
	// ErrInvalidArgument is returned before any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalidArgument(message string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, message)
}

// Requester performs one backend round trip. *apiclient.Client implements it.
type Requester interface {
	Request(ctx context.Context, path string, opts apiclient.RequestOptions) (json.RawMessage, error)
}

// Session drives the login state machine of one namespace.
type Session struct {
	scope      *session.Scope
	client     Requester
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSession wires a namespace's storage scope to its API client.
func NewSession(scope *session.Scope, client Requester, dispatcher events.Dispatcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		scope:      scope,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("namespace", string(scope.Namespace.Name))),
		now:        time.Now,
	}
}

// Namespace returns the namespace this session belongs to.
func (s *Session) Namespace() domain.Namespace {
	return s.scope.Namespace
}

// Scope exposes the namespace's token and profile storage.
func (s *Session) Scope() *session.Scope {
	return s.scope
}

// Login posts credentials to path, then stores the returned token and actor record.
func (s *Session) Login(ctx context.Context, path string, credentials any) (domain.Profile, error) {
	raw, err := s.client.Request(ctx, path, apiclient.RequestOptions{Method: http.MethodPost, Body: credentials})
	if err != nil {
		return nil, err
	}

	data, err := apiclient.Unwrap[map[string]json.RawMessage](raw)
	if err != nil {
		return nil, err
	}

	var token string
	if rawToken, ok := data["token"]; ok {
		if err := json.Unmarshal(rawToken, &token); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingToken, err)
		}
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	// A record cached by an earlier login must not outlive its token.
	profile, found := s.locateProfile(data)
	if !found {
		s.scope.Profile.Forget(ctx)
	}
	if err := s.scope.Tokens.Set(ctx, token); err != nil {
		return nil, fmt.Errorf("store %s token: %w", s.scope.Namespace.Name, err)
	}
	if found {
		s.scope.Profile.Set(ctx, profile)
	}

	payload := events.LoggedInPayload{ActorID: profile.ID(), ActorName: profile.Name()}
	if claims, err := auth.DecodeClaims(token); err == nil {
		payload.ExpiresAt = claims.ExpiresAt
	}
	s.publish(ctx, events.EventSessionLoggedIn, payload)
	s.logger.Info("logged in", zap.String("actor_id", payload.ActorID))
	return profile, nil
}

// Logout notifies the backend when a session is live, then clears token and
// profile together. The local clear happens even if the backend call fails.
func (s *Session) Logout(ctx context.Context) error {
	acknowledged := false
	if s.scope.Tokens.IsAuthenticated(ctx) {
		_, err := s.client.Request(ctx, s.scope.Namespace.Path("logout"), apiclient.RequestOptions{Method: http.MethodPost})
		if err != nil {
			s.logger.Warn("remote logout failed", zap.Error(err))
		} else {
			acknowledged = true
		}
	}
	if err := s.scope.Profile.Clear(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.EventSessionLoggedOut, events.LoggedOutPayload{RemoteAcknowledged: acknowledged})
	s.logger.Info("logged out", zap.Bool("remote_acknowledged", acknowledged))
	return nil
}

// IsAuthenticated checks the stored token, emitting session.expired when the
// check purged a token that was present.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, had := s.scope.Tokens.Get(ctx)
	if s.scope.Tokens.IsAuthenticated(ctx) {
		return true
	}
	if had {
		s.publish(ctx, events.EventSessionExpired, nil)
	}
	return false
}

// State reports the namespace's login state.
func (s *Session) State(ctx context.Context) domain.SessionState {
	if s.IsAuthenticated(ctx) {
		return domain.SessionLoggedIn
	}
	return domain.SessionLoggedOut
}

// CachedProfile returns the locally cached actor record.
func (s *Session) CachedProfile(ctx context.Context) (domain.Profile, bool) {
	return s.scope.Profile.Get(ctx)
}

// Profile fetches the actor record from the backend and refreshes the cache.
func (s *Session) Profile(ctx context.Context) (domain.Profile, error) {
	raw, err := s.client.Request(ctx, s.scope.Namespace.Path("profile"), apiclient.RequestOptions{})
	if err != nil {
		return nil, err
	}
	data, err := apiclient.Unwrap[map[string]json.RawMessage](raw)
	if err != nil {
		return nil, err
	}
	profile, found := s.locateProfile(data)
	if !found {
		profile, err = apiclient.Unwrap[domain.Profile](raw)
		if err != nil {
			return nil, err
		}
	}
	s.scope.Profile.Set(ctx, profile)
	return profile, nil
}

// Request forwards a raw call through the namespace's authenticated client.
func (s *Session) Request(ctx context.Context, path string, opts apiclient.RequestOptions) (json.RawMessage, error) {
	return s.client.Request(ctx, path, opts)
}

// locateProfile finds the actor record under the role key, then "user".
func (s *Session) locateProfile(data map[string]json.RawMessage) (domain.Profile, bool) {
	for _, key := range []string{s.scope.Namespace.ProfileField, "user"} {
		raw, ok := data[key]
		if !ok {
			continue
		}
		var profile domain.Profile
		if err := json.Unmarshal(raw, &profile); err == nil && profile != nil {
			return profile, true
		}
	}
	return nil, false
}

func (s *Session) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Namespace: s.scope.Namespace.Name,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish session event failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
