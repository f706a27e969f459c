package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devxankit/crm-saas/internal/domain"
)

// TaskRepository defines mock backend access to employee tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id, assigneeID string, status domain.TaskStatus) (*domain.Task, error)
}

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

// NewTaskRepository returns an in-memory implementation.
func NewTaskRepository() TaskRepository {
	return &taskRepository{tasks: make(map[string]domain.Task)}
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tasks[task.ID]; exists {
		return ErrConflict
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *taskRepository) ListByAssignee(_ context.Context, assigneeID string) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if task.AssigneeID == assigneeID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateStatus only touches tasks assigned to assigneeID.
func (r *taskRepository) UpdateStatus(_ context.Context, id, assigneeID string, status domain.TaskStatus) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.AssigneeID != assigneeID {
		return nil, ErrNotFound
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	r.tasks[id] = task
	return &task, nil
}
