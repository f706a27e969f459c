package backend

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

// WorkService serves projects and tasks to the portals that own them.
type WorkService struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
}

// NewWorkService builds the service.
func NewWorkService(projects repository.ProjectRepository, tasks repository.TaskRepository) *WorkService {
	return &WorkService{projects: projects, tasks: tasks}
}

// ProjectsFor lists projects visible to the account.
func (s *WorkService) ProjectsFor(ctx context.Context, account *domain.Account) ([]domain.Project, error) {
	switch account.Namespace {
	case domain.NamespacePM:
		return s.projects.ListByPM(ctx, account.ID)
	case domain.NamespaceClient:
		return s.projects.ListByClient(ctx, account.ID)
	default:
		return nil, errorutil.NewForbidden("projects are not available for this role")
	}
}

// AddAttachment records an upload on a project the PM owns.
func (s *WorkService) AddAttachment(ctx context.Context, pm *domain.Account, projectID string, attachment domain.Attachment) (*domain.Attachment, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewNotFound("Project")
		}
		return nil, err
	}
	if project.PMID != pm.ID {
		return nil, errorutil.NewForbidden("Not authorized to modify this project")
	}

	attachment.ID = uuid.NewString()
	attachment.UploadedBy = pm.ID
	if err := s.projects.AddAttachment(ctx, projectID, attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// TasksFor lists the employee's tasks.
func (s *WorkService) TasksFor(ctx context.Context, employee *domain.Account) ([]domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, employee.ID)
}

// UpdateTaskStatus moves one of the employee's tasks.
func (s *WorkService) UpdateTaskStatus(ctx context.Context, employee *domain.Account, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, errorutil.NewValidationError("Invalid task status")
	}
	task, err := s.tasks.UpdateStatus(ctx, taskID, employee.ID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewNotFound("Task")
		}
		return nil, err
	}
	return task, nil
}
