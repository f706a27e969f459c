package dto

import "github.com/devxankit/crm-saas/internal/domain"

// UpdateTaskStatusRequest payload for employee task transitions.
type UpdateTaskStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}
