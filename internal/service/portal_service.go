package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/domain"
)

// PasswordPortal is a namespace whose actors log in with email and password.
// Sales and Admin use it as is; PM and Employee build on it.
type PasswordPortal struct {
	*Session
}

// NewPasswordPortal wraps a session with email/password login.
func NewPasswordPortal(session *Session) *PasswordPortal {
	return &PasswordPortal{Session: session}
}

// Login authenticates against POST /<prefix>/login.
func (p *PasswordPortal) Login(ctx context.Context, email, password string) (domain.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalidArgument("email and password are required")
	}
	return p.Session.Login(ctx, p.Namespace().Path("login"), dto.LoginRequest{Email: email, Password: password})
}

// decodeProjects accepts a bare array, {data: [...]} or {data: {projects: [...]}}.
func decodeProjects(raw json.RawMessage) ([]domain.Project, error) {
	data, err := apiclient.Unwrap[json.RawMessage](raw)
	if err != nil {
		return nil, err
	}
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		return apiclient.Decode[[]domain.Project](data)
	}
	list, err := apiclient.Decode[dto.ProjectList](data)
	if err != nil {
		return nil, err
	}
	if list.Projects == nil {
		return []domain.Project{}, nil
	}
	return list.Projects, nil
}
