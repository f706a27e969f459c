package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

// OTPHandler exposes the client portal's phone login.
type OTPHandler struct {
	auth *backend.AuthService
}

// NewOTPHandler constructs handler.
func NewOTPHandler(authService *backend.AuthService) *OTPHandler {
	return &OTPHandler{auth: authService}
}

// SendOTP handles POST /client/send-otp.
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload")
	}
	otp, err := h.auth.SendOTP(c.UserContext(), req.PhoneNumber)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("OTP sent successfully", dto.SendOTPData{
		PhoneNumber: otp.Phone,
		ExpiresAt:   otp.ExpiresAt,
	}))
}

// VerifyOTP handles POST /client/verify-otp.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload")
	}
	session, err := h.auth.VerifyOTP(c.UserContext(), req.PhoneNumber, req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Login successful", loginData(domain.Client, session)))
}
