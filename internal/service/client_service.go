package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/devxankit/crm-saas/internal/api/dto"
	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/domain"
)

// ClientService wraps the client portal, whose actors log in by OTP.
type ClientService struct {
	*Session
}

// NewClientService builds the service over a client session.
func NewClientService(session *Session) *ClientService {
	return &ClientService{Session: session}
}

// SendOTP asks the backend to text a login code to phone.
func (s *ClientService) SendOTP(ctx context.Context, phone string) (dto.SendOTPData, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return dto.SendOTPData{}, invalidArgument("phone number is required")
	}
	raw, err := s.Request(ctx, s.Namespace().Path("send-otp"), apiclient.RequestOptions{
		Method: http.MethodPost,
		Body:   dto.SendOTPRequest{PhoneNumber: phone},
	})
	if err != nil {
		return dto.SendOTPData{}, err
	}
	return apiclient.Unwrap[dto.SendOTPData](raw)
}

// VerifyOTP exchanges the code for a session and stores it.
func (s *ClientService) VerifyOTP(ctx context.Context, phone, otp string) (domain.Profile, error) {
	phone, otp = strings.TrimSpace(phone), strings.TrimSpace(otp)
	if phone == "" || otp == "" {
		return nil, invalidArgument("phone number and otp are required")
	}
	return s.Login(ctx, s.Namespace().Path("verify-otp"), dto.VerifyOTPRequest{PhoneNumber: phone, OTP: otp})
}

// Projects lists the client's projects.
func (s *ClientService) Projects(ctx context.Context) ([]domain.Project, error) {
	raw, err := s.Request(ctx, s.Namespace().Path("projects"), apiclient.RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeProjects(raw)
}
