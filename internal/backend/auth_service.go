package backend

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
	"github.com/devxankit/crm-saas/pkg/errorutil"
)

const otpTTL = 5 * time.Minute

// Session is what a successful login hands back to the portal.
type Session struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates mock backend login flows.
type AuthService struct {
	accounts repository.AccountRepository
	otps     repository.OTPRepository
	tokenMgr *auth.TokenManager
	otpCode  string
	now      func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	OTPRepo     repository.OTPRepository
}

// NewAuthService builds the service. A fixed OTP code in cfg makes client logins scriptable.
func NewAuthService(cfg config.MockConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts: deps.AccountRepo,
		otps:     deps.OTPRepo,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		otpCode:  cfg.OTPCode,
		now:      time.Now,
	}
}

// Login authenticates an email/password account of namespace ns.
func (s *AuthService) Login(ctx context.Context, ns domain.NamespaceName, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errorutil.NewValidationError("Please provide email and password")
	}
	account, err := s.accounts.GetByEmail(ctx, ns, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewUnauthorized("Invalid credentials")
		}
		return nil, err
	}
	if !account.Active {
		return nil, errorutil.NewForbidden("Account is deactivated. Please contact admin.")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, errorutil.NewUnauthorized("Invalid credentials")
	}
	return s.issue(account)
}

// SendOTP issues a one-time code to a registered client phone.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (*repository.OTPCode, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, errorutil.NewValidationError("Phone number is required")
	}
	if _, err := s.accounts.GetByPhone(ctx, domain.NamespaceClient, phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewNotFound("Client with this phone number")
		}
		return nil, err
	}

	code := s.otpCode
	if code == "" {
		generated, err := randomDigits(6)
		if err != nil {
			return nil, errorutil.NewInternalError(err)
		}
		code = generated
	}
	otp := &repository.OTPCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: s.now().Add(otpTTL),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return nil, err
	}
	return otp, nil
}

// VerifyOTP consumes a live code and logs the client in.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*Session, error) {
	phone, code = strings.TrimSpace(phone), strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, errorutil.NewValidationError("Phone number and OTP are required")
	}
	otp, err := s.otps.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewValidationError("Invalid or expired OTP")
		}
		return nil, err
	}
	if otp.UsedAt != nil || s.now().After(otp.ExpiresAt) || otp.Code != code {
		return nil, errorutil.NewValidationError("Invalid or expired OTP")
	}
	if err := s.otps.MarkUsed(ctx, phone); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByPhone(ctx, domain.NamespaceClient, phone)
	if err != nil {
		return nil, err
	}
	return s.issue(account)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(account *domain.Account) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Namespace)
	if err != nil {
		return nil, errorutil.NewInternalError(fmt.Errorf("sign token: %w", err))
	}
	return &Session{Account: account, Token: token, ExpiresAt: exp}, nil
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
