package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/devxankit/crm-saas/internal/domain"
)

// ProjectRepository defines mock backend access to projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByPM(ctx context.Context, pmID string) ([]domain.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Project, error)
	AddAttachment(ctx context.Context, projectID string, attachment domain.Attachment) error
}

type projectRepository struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
}

// NewProjectRepository returns an in-memory implementation.
func NewProjectRepository() ProjectRepository {
	return &projectRepository{projects: make(map[string]domain.Project)}
}

func (r *projectRepository) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.projects[project.ID]; exists {
		return ErrConflict
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *projectRepository) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &project, nil
}

func (r *projectRepository) ListByPM(_ context.Context, pmID string) ([]domain.Project, error) {
	return r.list(func(p domain.Project) bool { return p.PMID == pmID }), nil
}

func (r *projectRepository) ListByClient(_ context.Context, clientID string) ([]domain.Project, error) {
	return r.list(func(p domain.Project) bool { return p.ClientID == clientID }), nil
}

func (r *projectRepository) AddAttachment(_ context.Context, projectID string, attachment domain.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	project.Attachments = append(append([]domain.Attachment{}, project.Attachments...), attachment)
	r.projects[projectID] = project
	return nil
}

func (r *projectRepository) list(match func(domain.Project) bool) []domain.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Project, 0)
	for _, project := range r.projects {
		if match(project) {
			out = append(out, project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
