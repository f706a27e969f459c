package session

import (
	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
)

// Scope is the storage capability of one namespace: its token and its profile record.
type Scope struct {
	Namespace domain.Namespace
	Tokens    *auth.Tokens
	Profile   *ProfileStore
}

// NewScope binds token and profile storage for ns onto store.
func NewScope(store repository.KeyValueRepository, ns domain.Namespace, logger *zap.Logger, opts ...auth.TokenOption) *Scope {
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := auth.NewTokens(store, ns, logger, opts...)
	return &Scope{
		Namespace: ns,
		Tokens:    tokens,
		Profile:   NewProfileStore(store, ns, tokens, logger),
	}
}
