package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devxankit/crm-saas/internal/auth"
	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/repository"
)

// Fixture phone and emails the mock backend recognizes.
const (
	FixturePMEmail       = "pm@example.com"
	FixtureEmployeeEmail = "employee@example.com"
	FixtureSalesEmail    = "sales@example.com"
	FixtureAdminEmail    = "admin@example.com"
	FixtureClientPhone   = "9876543210"
)

// Repositories bundles the in-memory stores of the mock backend.
type Repositories struct {
	Accounts repository.AccountRepository
	OTPs     repository.OTPRepository
	Projects repository.ProjectRepository
	Tasks    repository.TaskRepository
}

// NewRepositories returns empty in-memory stores.
func NewRepositories() Repositories {
	return Repositories{
		Accounts: repository.NewAccountRepository(),
		OTPs:     repository.NewOTPRepository(),
		Projects: repository.NewProjectRepository(),
		Tasks:    repository.NewTaskRepository(),
	}
}

// Fixtures records the ids created by Seed.
type Fixtures struct {
	PM       domain.Account
	Employee domain.Account
	Client   domain.Account
	Sales    domain.Account
	Admin    domain.Account
	Project  domain.Project
	Task     domain.Task
}

// Seed fills repos with one account per portal, a project and a task.
func Seed(ctx context.Context, cfg config.MockConfig, repos Repositories) (*Fixtures, error) {
	hash, err := auth.HashPassword(cfg.SeedPassword, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	now := time.Now().UTC()

	newAccount := func(ns domain.NamespaceName, name, email, phone string) domain.Account {
		account := domain.Account{
			ID:        uuid.NewString(),
			Namespace: ns,
			Name:      name,
			Email:     email,
			Phone:     phone,
			Active:    true,
			CreatedAt: now,
		}
		if email != "" {
			account.PasswordHash = hash
		}
		return account
	}

	f := &Fixtures{
		PM:       newAccount(domain.NamespacePM, "Priya Manager", FixturePMEmail, ""),
		Employee: newAccount(domain.NamespaceEmployee, "Ravi Developer", FixtureEmployeeEmail, ""),
		Client:   newAccount(domain.NamespaceClient, "Acme Corp", "", FixtureClientPhone),
		Sales:    newAccount(domain.NamespaceSales, "Sam Sales", FixtureSalesEmail, ""),
		Admin:    newAccount(domain.NamespaceAdmin, "Ada Admin", FixtureAdminEmail, ""),
	}
	for _, account := range []*domain.Account{&f.PM, &f.Employee, &f.Client, &f.Sales, &f.Admin} {
		if err := repos.Accounts.Create(ctx, account); err != nil {
			return nil, fmt.Errorf("seed %s account: %w", account.Namespace, err)
		}
	}

	f.Project = domain.Project{
		ID:          uuid.NewString(),
		Name:        "Website Redesign",
		Description: "Marketing site refresh",
		Status:      domain.ProjectStatusActive,
		ClientID:    f.Client.ID,
		PMID:        f.PM.ID,
		Progress:    40,
		Attachments: []domain.Attachment{},
		CreatedAt:   now,
	}
	if err := repos.Projects.Create(ctx, &f.Project); err != nil {
		return nil, fmt.Errorf("seed project: %w", err)
	}

	due := now.Add(72 * time.Hour)
	f.Task = domain.Task{
		ID:         uuid.NewString(),
		Title:      "Build landing page",
		ProjectID:  f.Project.ID,
		AssigneeID: f.Employee.ID,
		Status:     domain.TaskStatusPending,
		Priority:   "high",
		DueDate:    &due,
		UpdatedAt:  now,
	}
	if err := repos.Tasks.Create(ctx, &f.Task); err != nil {
		return nil, fmt.Errorf("seed task: %w", err)
	}
	return f, nil
}
