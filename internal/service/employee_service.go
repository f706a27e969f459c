package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/domain"
)

// EmployeeService wraps the employee portal endpoints.
type EmployeeService struct {
	*PasswordPortal
}

// NewEmployeeService builds the service over an employee session.
func NewEmployeeService(session *Session) *EmployeeService {
	return &EmployeeService{PasswordPortal: NewPasswordPortal(session)}
}

// Tasks lists tasks assigned to the logged-in employee.
func (s *EmployeeService) Tasks(ctx context.Context) ([]domain.Task, error) {
	raw, err := s.Request(ctx, s.Namespace().Path("tasks"), apiclient.RequestOptions{})
	if err != nil {
		return nil, err
	}
	tasks, err := apiclient.Unwrap[[]domain.Task](raw)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// UpdateTaskStatus moves one of the employee's tasks to status.
func (s *EmployeeService) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) (domain.Task, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return domain.Task{}, invalidArgument("task id is required")
	}
	if !status.Valid() {
		return domain.Task{}, invalidArgument("unknown task status " + string(status))
	}
	path := s.Namespace().Path("tasks/" + url.PathEscape(taskID) + "/status")
	raw, err := s.Request(ctx, path, apiclient.RequestOptions{
		Method: http.MethodPatch,
		Body:   dto.UpdateTaskStatusRequest{Status: status},
	})
	if err != nil {
		return domain.Task{}, err
	}
	return apiclient.Unwrap[domain.Task](raw)
}
