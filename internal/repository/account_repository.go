package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/devxankit/crm-saas/internal/domain"
)

// AccountRepository defines mock backend access to portal accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, ns domain.NamespaceName, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, ns domain.NamespaceName, email string) (*domain.Account, error)
	GetByPhone(ctx context.Context, ns domain.NamespaceName, phone string) (*domain.Account, error)
}

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewAccountRepository returns an in-memory implementation.
func NewAccountRepository() AccountRepository {
	return &accountRepository{accounts: make(map[string]domain.Account)}
}

func (r *accountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Namespace != account.Namespace {
			continue
		}
		if account.Email != "" && strings.EqualFold(existing.Email, account.Email) {
			return ErrConflict
		}
		if account.Phone != "" && existing.Phone == account.Phone {
			return ErrConflict
		}
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *accountRepository) GetByID(_ context.Context, ns domain.NamespaceName, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok || account.Namespace != ns {
		return nil, ErrNotFound
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(_ context.Context, ns domain.NamespaceName, email string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool {
		return a.Namespace == ns && a.Email != "" && strings.EqualFold(a.Email, email)
	})
}

func (r *accountRepository) GetByPhone(_ context.Context, ns domain.NamespaceName, phone string) (*domain.Account, error) {
	return r.find(func(a domain.Account) bool {
		return a.Namespace == ns && a.Phone != "" && a.Phone == phone
	})
}

func (r *accountRepository) find(match func(domain.Account) bool) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if match(account) {
			found := account
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
