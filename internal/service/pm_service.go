package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/domain"
)

// AttachmentField is the multipart field the backend reads uploads from.
const AttachmentField = "attachment"

// PMService wraps the project manager portal endpoints.
type PMService struct {
	*PasswordPortal
}

// NewPMService builds the service over a PM session.
func NewPMService(session *Session) *PMService {
	return &PMService{PasswordPortal: NewPasswordPortal(session)}
}

// Projects lists the PM's projects.
func (s *PMService) Projects(ctx context.Context) ([]domain.Project, error) {
	raw, err := s.Request(ctx, s.Namespace().Path("projects"), apiclient.RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeProjects(raw)
}

// UploadAttachment sends content as a multipart upload against a project.
func (s *PMService) UploadAttachment(ctx context.Context, projectID, filename string, content io.Reader) (domain.Attachment, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" || strings.TrimSpace(filename) == "" {
		return domain.Attachment{}, invalidArgument("project id and file name are required")
	}

	form := apiclient.NewForm().AddFile(AttachmentField, filename, content)
	path := s.Namespace().Path("projects/" + url.PathEscape(projectID) + "/attachments")
	raw, err := s.Request(ctx, path, apiclient.RequestOptions{Method: http.MethodPost, Body: form})
	if err != nil {
		return domain.Attachment{}, err
	}
	return apiclient.Unwrap[domain.Attachment](raw)
}
