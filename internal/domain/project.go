package domain

import "time"

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project is a client engagement managed by a PM.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	ClientID    string        `json:"clientId"`
	PMID        string        `json:"pmId"`
	Progress    int           `json:"progress"`
	Attachments []Attachment  `json:"attachments"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Attachment is a file uploaded against a project.
type Attachment struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType,omitempty"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   time.Time `json:"uploadedAt"`
}
