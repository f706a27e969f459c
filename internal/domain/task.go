package domain

import "time"

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusTesting    TaskStatus = "testing"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusTesting, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work assigned to an employee.
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	ProjectID  string     `json:"projectId"`
	AssigneeID string     `json:"assigneeId"`
	Status     TaskStatus `json:"status"`
	Priority   string     `json:"priority"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
