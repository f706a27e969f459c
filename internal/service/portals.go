package service

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/events"
	"github.com/devxankit/crm-saas/internal/observability"
	"github.com/devxankit/crm-saas/internal/repository"
	"github.com/devxankit/crm-saas/internal/session"
)

// PortalDependencies encapsulates what every namespace client is built from.
type PortalDependencies struct {
	Store        repository.KeyValueRepository
	BaseURL      string
	HTTPClient   *http.Client
	Timeout      time.Duration
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Dispatcher   events.Dispatcher
	TokenOptions []auth.TokenOption
}

// Portals holds one independent client stack per namespace.
type Portals struct {
	PM       *PMService
	Employee *EmployeeService
	Client   *ClientService
	Sales    *PasswordPortal
	Admin    *PasswordPortal

	sessions map[domain.NamespaceName]*Session
}

// NewPortals builds a scope, an API client and a session for every namespace.
// Namespaces share the store but never a key, a token source or a cookie jar.
func NewPortals(deps PortalDependencies) (*Portals, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("portal storage is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessions := make(map[domain.NamespaceName]*Session, len(domain.Namespaces()))
	for _, ns := range domain.Namespaces() {
		scope := session.NewScope(deps.Store, ns, logger, deps.TokenOptions...)
		client, err := apiclient.NewClient(deps.BaseURL, scope.Tokens,
			apiclient.WithHTTPClient(deps.HTTPClient),
			apiclient.WithTimeout(deps.Timeout),
			apiclient.WithLogger(logger.Named("apiclient").With(zap.String("namespace", string(ns.Name)))),
			apiclient.WithMetrics(deps.Metrics),
		)
		if err != nil {
			return nil, fmt.Errorf("build %s client: %w", ns.Name, err)
		}
		sessions[ns.Name] = NewSession(scope, client, deps.Dispatcher, logger)
	}

	return &Portals{
		PM:       NewPMService(sessions[domain.NamespacePM]),
		Employee: NewEmployeeService(sessions[domain.NamespaceEmployee]),
		Client:   NewClientService(sessions[domain.NamespaceClient]),
		Sales:    NewPasswordPortal(sessions[domain.NamespaceSales]),
		Admin:    NewPasswordPortal(sessions[domain.NamespaceAdmin]),
		sessions: sessions,
	}, nil
}

// Session returns the session of the named namespace.
func (p *Portals) Session(name domain.NamespaceName) (*Session, error) {
	s, ok := p.sessions[name]
	if !ok {
		return nil, fmt.Errorf("unknown namespace %q", name)
	}
	return s, nil
}

// PasswordLogin returns the email/password login of the named namespace.
func (p *Portals) PasswordLogin(name domain.NamespaceName) (*PasswordPortal, error) {
	switch name {
	case domain.NamespacePM:
		return p.PM.PasswordPortal, nil
	case domain.NamespaceEmployee:
		return p.Employee.PasswordPortal, nil
	case domain.NamespaceSales:
		return p.Sales, nil
	case domain.NamespaceAdmin:
		return p.Admin, nil
	default:
		return nil, fmt.Errorf("namespace %q does not log in with a password", name)
	}
}
