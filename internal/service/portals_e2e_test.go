package service_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	httptransport "github.com/devxankit/crm-saas/internal/api/http"
	"github.com/devxankit/crm-saas/internal/apiclient"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/config"
	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/events"
	"github.com/devxankit/crm-saas/internal/repository"
	"github.com/devxankit/crm-saas/internal/service"
)

const seedPassword = "password123"

type harness struct {
	portals  *service.Portals
	store    repository.KeyValueRepository
	fixtures *backend.Fixtures
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Name: "mockapi-test", Version: "test"},
		Mock: config.MockConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			SeedPassword:          seedPassword,
			OTPCode:               "123456",
		},
	}
	server, err := httptransport.NewServer(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("build mock backend: %v", err)
	}
	srv := httptest.NewServer(adaptor.FiberApp(server.App))
	t.Cleanup(srv.Close)

	store := repository.NewMemoryKVRepository()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, nil).RegisterHandlers()
	portals, err := service.NewPortals(service.PortalDependencies{
		Store:      store,
		BaseURL:    srv.URL + httptransport.APIPrefix,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("build portals: %v", err)
	}
	return &harness{portals: portals, store: store, fixtures: server.Fixtures}
}

func TestPMPortalEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	profile, err := h.portals.PM.Login(ctx, backend.FixturePMEmail, seedPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if profile.Email() != backend.FixturePMEmail || profile.ID() != h.fixtures.PM.ID {
		t.Fatalf("unexpected profile %v", profile)
	}
	if !h.portals.PM.IsAuthenticated(ctx) {
		t.Fatalf("expected pm session")
	}
	if h.portals.Employee.IsAuthenticated(ctx) {
		t.Fatalf("pm login must not authenticate the employee portal")
	}

	projects, err := h.portals.PM.Projects(ctx)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != h.fixtures.Project.ID {
		t.Fatalf("unexpected projects %+v", projects)
	}

	attachment, err := h.portals.PM.UploadAttachment(ctx, h.fixtures.Project.ID, "brief.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if attachment.OriginalName != "brief.txt" || attachment.Size != 5 || attachment.UploadedBy != h.fixtures.PM.ID {
		t.Fatalf("unexpected attachment %+v", attachment)
	}

	fetched, err := h.portals.PM.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if fetched.Name() != h.fixtures.PM.Name {
		t.Fatalf("unexpected fetched profile %v", fetched)
	}

	if err := h.portals.PM.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := h.store.Get(ctx, "pmToken"); ok {
		t.Fatalf("expected token cleared")
	}
	if _, ok, _ := h.store.Get(ctx, "pmUser"); ok {
		t.Fatalf("expected profile cleared")
	}
}

func TestLoginFailureSurfacesBackendMessage(t *testing.T) {
	h := newHarness(t)
	_, err := h.portals.PM.Login(context.Background(), backend.FixturePMEmail, "wrong")
	if !errors.Is(err, apiclient.ErrRequestFailed) {
		t.Fatalf("expected RequestFailed, got %v", err)
	}
	if err.Error() != "Invalid credentials" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	// PM credentials are not valid in the employee portal.
	_, err = h.portals.Employee.Login(context.Background(), backend.FixturePMEmail, seedPassword)
	if !errors.Is(err, apiclient.ErrRequestFailed) {
		t.Fatalf("expected RequestFailed, got %v", err)
	}
}

func TestEmployeeTasksEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.portals.Employee.Login(ctx, backend.FixtureEmployeeEmail, seedPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	tasks, err := h.portals.Employee.Tasks(ctx)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != h.fixtures.Task.ID {
		t.Fatalf("unexpected tasks %+v", tasks)
	}

	task, err := h.portals.Employee.UpdateTaskStatus(ctx, h.fixtures.Task.ID, domain.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if task.Status != domain.TaskStatusInProgress {
		t.Fatalf("unexpected status %q", task.Status)
	}

	if _, err := h.portals.Employee.UpdateTaskStatus(ctx, h.fixtures.Task.ID, "done"); !errors.Is(err, service.ErrInvalidArgument) {
		t.Fatalf("expected client-side validation error, got %v", err)
	}
	_, err = h.portals.Employee.UpdateTaskStatus(ctx, "missing", domain.TaskStatusTesting)
	if reqErr, ok := apiclient.AsRequestError(err); !ok || reqErr.HTTPStatus != 404 || reqErr.Message != "Task not found" {
		t.Fatalf("expected 404 Task not found, got %v", err)
	}
}

func TestClientOTPEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.portals.Client.VerifyOTP(ctx, backend.FixtureClientPhone, "123456"); err == nil {
		t.Fatalf("expected verify without a sent code to fail")
	}

	sent, err := h.portals.Client.SendOTP(ctx, backend.FixtureClientPhone)
	if err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if sent.PhoneNumber != backend.FixtureClientPhone || sent.ExpiresAt.IsZero() {
		t.Fatalf("unexpected send result %+v", sent)
	}

	_, err = h.portals.Client.VerifyOTP(ctx, backend.FixtureClientPhone, "000000")
	if err == nil || err.Error() != "Invalid or expired OTP" {
		t.Fatalf("expected invalid otp, got %v", err)
	}

	profile, err := h.portals.Client.VerifyOTP(ctx, backend.FixtureClientPhone, "123456")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if profile.ID() != h.fixtures.Client.ID {
		t.Fatalf("unexpected profile %v", profile)
	}
	if _, ok, _ := h.store.Get(ctx, "clientToken"); !ok {
		t.Fatalf("expected token under clientToken")
	}

	projects, err := h.portals.Client.Projects(ctx)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 1 || projects[0].ClientID != h.fixtures.Client.ID {
		t.Fatalf("unexpected projects %+v", projects)
	}

	if _, err := h.portals.Client.VerifyOTP(ctx, backend.FixtureClientPhone, "123456"); err == nil {
		t.Fatalf("expected a used code to be rejected")
	}

	if _, err := h.portals.Client.SendOTP(ctx, "0000000000"); !errors.Is(err, apiclient.ErrRequestFailed) {
		t.Fatalf("expected unknown phone to fail, got %v", err)
	}
}

func TestNamespacesCannotCrossPortals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.portals.PM.Login(ctx, backend.FixturePMEmail, seedPassword); err != nil {
		t.Fatalf("login: %v", err)
	}

	pm, _ := h.portals.Session(domain.NamespacePM)
	_, err := pm.Request(ctx, "/employee/tasks", apiclient.RequestOptions{})
	if reqErr, ok := apiclient.AsRequestError(err); !ok || reqErr.HTTPStatus != 403 {
		t.Fatalf("expected pm token to be refused by the employee portal, got %v", err)
	}

	_, err = h.portals.Employee.Tasks(ctx)
	if reqErr, ok := apiclient.AsRequestError(err); !ok || reqErr.Message != "No token provided, authorization denied" {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestSalesAndAdminLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for name, email := range map[domain.NamespaceName]string{
		domain.NamespaceSales: backend.FixtureSalesEmail,
		domain.NamespaceAdmin: backend.FixtureAdminEmail,
	} {
		portal, err := h.portals.PasswordLogin(name)
		if err != nil {
			t.Fatalf("password login %s: %v", name, err)
		}
		if _, err := portal.Login(ctx, email, seedPassword); err != nil {
			t.Fatalf("login %s: %v", name, err)
		}
		if portal.State(ctx) != domain.SessionLoggedIn {
			t.Fatalf("expected %s logged in", name)
		}
	}
	if _, err := h.portals.PasswordLogin(domain.NamespaceClient); err == nil {
		t.Fatalf("client portal has no password login")
	}
}
