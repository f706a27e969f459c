package session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
)

// ProfileStore persists one namespace's cached profile record next to its token.
type ProfileStore struct {
	store  repository.KeyValueRepository
	ns     domain.Namespace
	tokens *auth.Tokens
	logger *zap.Logger
}

// NewProfileStore binds record storage to the namespace's profile key. tokens
// must be bound to the same store and namespace so Clear can drop both.
func NewProfileStore(store repository.KeyValueRepository, ns domain.Namespace, tokens *auth.Tokens, logger *zap.Logger) *ProfileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileStore{store: store, ns: ns, tokens: tokens, logger: logger}
}

// Get returns the cached profile. Missing, unreadable and unparseable
// records are all reported as absent.
func (s *ProfileStore) Get(ctx context.Context) (domain.Profile, bool) {
	raw, ok, err := s.store.Get(ctx, s.ns.ProfileKey)
	if err != nil {
		s.logger.Warn("read profile failed", zap.String("namespace", string(s.ns.Name)), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var profile domain.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.logger.Warn("parse profile failed", zap.String("namespace", string(s.ns.Name)), zap.Error(err))
		return nil, false
	}
	if profile == nil {
		return nil, false
	}
	return profile, true
}

// Set caches profile. Failures are logged and swallowed.
func (s *ProfileStore) Set(ctx context.Context, profile domain.Profile) {
	encoded, err := json.Marshal(profile)
	if err != nil {
		s.logger.Warn("encode profile failed", zap.String("namespace", string(s.ns.Name)), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, s.ns.ProfileKey, string(encoded)); err != nil {
		s.logger.Warn("write profile failed", zap.String("namespace", string(s.ns.Name)), zap.Error(err))
	}
}

// Forget drops the cached record and keeps the token. Failures are logged and swallowed.
func (s *ProfileStore) Forget(ctx context.Context) {
	if err := s.store.Delete(ctx, s.ns.ProfileKey); err != nil {
		s.logger.Warn("drop profile failed", zap.String("namespace", string(s.ns.Name)), zap.Error(err))
	}
}

// Clear removes the profile record and the token in a single delete.
func (s *ProfileStore) Clear(ctx context.Context) error {
	keys := []string{s.ns.ProfileKey, s.ns.TokenKey}
	if s.tokens != nil && s.tokens.Key() != s.ns.TokenKey {
		keys = append(keys, s.tokens.Key())
	}
	if err := s.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear %s session: %w", s.ns.Name, err)
	}
	return nil
}

// State reports the namespace's login state. Checking may purge an expired token.
func (s *ProfileStore) State(ctx context.Context) domain.SessionState {
	if s.tokens != nil && s.tokens.IsAuthenticated(ctx) {
		return domain.SessionLoggedIn
	}
	return domain.SessionLoggedOut
}
