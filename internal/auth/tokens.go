package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
)

// Tokens manages the bearer token of one namespace in persistent storage.
type Tokens struct {
	store  repository.KeyValueRepository
	key    string
	ns     domain.NamespaceName
	now    func() time.Time
	logger *zap.Logger
}

// TokenOption customizes Tokens.
type TokenOption func(*Tokens)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTokens binds token storage to the namespace's token key.
func NewTokens(store repository.KeyValueRepository, ns domain.Namespace, logger *zap.Logger, opts ...TokenOption) *Tokens {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tokens{
		store:  store,
		key:    ns.TokenKey,
		ns:     ns.Name,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Key returns the storage key the token lives under.
func (t *Tokens) Key() string {
	return t.key
}

// Get returns the stored token. Read failures are logged and reported as absent.
func (t *Tokens) Get(ctx context.Context) (string, bool) {
	token, ok, err := t.store.Get(ctx, t.key)
	if err != nil {
		t.logger.Warn("read token failed", zap.String("namespace", string(t.ns)), zap.Error(err))
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Set overwrites the stored token.
func (t *Tokens) Set(ctx context.Context, token string) error {
	return t.store.Set(ctx, t.key, token)
}

// Remove deletes the stored token.
func (t *Tokens) Remove(ctx context.Context) error {
	return t.store.Delete(ctx, t.key)
}

// Current returns the stored token with its decoded expiry when it is still valid.
// A token that cannot be decoded, or whose exp has passed, is removed.
func (t *Tokens) Current(ctx context.Context) (domain.SessionToken, bool) {
	raw, ok := t.Get(ctx)
	if !ok {
		return domain.SessionToken{}, false
	}

	claims, err := DecodeClaims(raw)
	if err != nil {
		t.logger.Warn("purging corrupt token", zap.String("namespace", string(t.ns)), zap.Error(err))
		t.purge(ctx)
		return domain.SessionToken{}, false
	}

	token := domain.SessionToken{Raw: raw, ExpiresAt: claims.ExpiresAt}
	if token.Expired(t.now()) {
		t.logger.Debug("purging expired token",
			zap.String("namespace", string(t.ns)),
			zap.Time("expires_at", claims.ExpiresAt))
		t.purge(ctx)
		return domain.SessionToken{}, false
	}
	return token, true
}

// IsAuthenticated reports whether a stored token exists and its exp is in the future.
func (t *Tokens) IsAuthenticated(ctx context.Context) bool {
	_, ok := t.Current(ctx)
	return ok
}

func (t *Tokens) purge(ctx context.Context) {
	if err := t.Remove(ctx); err != nil {
		t.logger.Warn("remove token failed", zap.String("namespace", string(t.ns)), zap.Error(err))
	}
}
