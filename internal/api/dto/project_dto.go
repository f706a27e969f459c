package dto

import "github.com/devxankit/crm-saas/internal/domain"

// ProjectList is the data object of project listing endpoints.
type ProjectList struct {
	Projects []domain.Project `json:"projects"`
	Count    int              `json:"count"`
}
