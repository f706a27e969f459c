package repository

import (
	"context"
	"sync"
	"time"
)

// OTPCode represents a one-time login code issued to a client phone number.
type OTPCode struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// OTPRepository manages one-time code persistence. A phone holds at most one live code.
type OTPRepository interface {
	Create(ctx context.Context, code *OTPCode) error
	GetByPhone(ctx context.Context, phone string) (*OTPCode, error)
	MarkUsed(ctx context.Context, phone string) error
}

type otpRepository struct {
	mu    sync.Mutex
	codes map[string]OTPCode
}

// NewOTPRepository constructs an in-memory repository.
func NewOTPRepository() OTPRepository {
	return &otpRepository{codes: make(map[string]OTPCode)}
}

func (r *otpRepository) Create(_ context.Context, code *OTPCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	r.codes[code.Phone] = *code
	return nil
}

func (r *otpRepository) GetByPhone(_ context.Context, phone string) (*OTPCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return &code, nil
}

func (r *otpRepository) MarkUsed(_ context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[phone]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	code.UsedAt = &now
	r.codes[phone] = code
	return nil
}
