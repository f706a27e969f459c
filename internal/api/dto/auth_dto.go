package dto

import (
	"time"

	"github.com/devxankit/crm-saas/internal/domain"
)

// LoginRequest payload for email/password portals.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTPRequest asks the backend to text a login code to a client.
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// VerifyOTPRequest exchanges a texted code for a session.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// LoginData is the data object of a login response. The actor record sits
// under a role-specific key, so it is kept raw and located by the caller.
type LoginData struct {
	Token     string         `json:"token"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
	User      domain.Profile `json:"user,omitempty"`
}

// SendOTPData reports when the issued code stops working.
type SendOTPData struct {
	PhoneNumber string    `json:"phoneNumber"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
