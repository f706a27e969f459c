package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

// AttachmentField is the multipart field uploads are read from.
const AttachmentField = "attachment"

// ProjectHandler exposes project listings and uploads.
type ProjectHandler struct {
	work *backend.WorkService
}

// NewProjectHandler constructs handler.
func NewProjectHandler(work *backend.WorkService) *ProjectHandler {
	return &ProjectHandler{work: work}
}

// List handles GET /pm/projects and GET /client/projects.
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	projects, err := h.work.ProjectsFor(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.ProjectList{Projects: projects, Count: len(projects)}))
}

// UploadAttachment handles POST /pm/projects/:id/attachments.
func (h *ProjectHandler) UploadAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	file, err := c.FormFile(AttachmentField)
	if err != nil {
		return errorutil.NewValidationError("No file uploaded")
	}

	f, err := file.Open()
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	defer f.Close()
	size, err := io.Copy(io.Discard, f)
	if err != nil {
		return errorutil.NewInternalError(err)
	}

	attachment, err := h.work.AddAttachment(c.UserContext(), principal.Account, c.Params("id"), domain.Attachment{
		OriginalName: file.Filename,
		ContentType:  file.Header.Get(fiber.HeaderContentType),
		Size:         size,
		UploadedAt:   timeNow(),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OKMessage("Attachment uploaded", attachment))
}
