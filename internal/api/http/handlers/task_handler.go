package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

var timeNow = func() time.Time { return time.Now().UTC() }

// TaskHandler exposes the employee task board.
type TaskHandler struct {
	work *backend.WorkService
}

// NewTaskHandler constructs handler.
func NewTaskHandler(work *backend.WorkService) *TaskHandler {
	return &TaskHandler{work: work}
}

// List handles GET /employee/tasks. The list is the data value itself.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	tasks, err := h.work.TasksFor(c.UserContext(), principal.Account)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(tasks))
}

// UpdateStatus handles PATCH /employee/tasks/:id/status.
func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload")
	}
	task, err := h.work.UpdateTaskStatus(c.UserContext(), principal.Account, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Task status updated", task))
}
