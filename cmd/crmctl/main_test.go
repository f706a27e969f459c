package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	httptransport "github.com/devxankit/crm-saas/internal/api/http"
	"github.com/devxankit/crm-saas/internal/backend"
	"github.com/devxankit/crm-saas/internal/config"
)

// newBackend serves the mock backend and points crmctl at a fresh storage file.
func newBackend(t *testing.T) string {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Name: "mockapi-test", Version: "test"},
		Mock: config.MockConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			SeedPassword:          "password123",
			OTPCode:               "123456",
		},
	}
	server, err := httptransport.NewServer(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("build mock backend: %v", err)
	}
	srv := httptest.NewServer(adaptor.FiberApp(server.App))
	t.Cleanup(srv.Close)

	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_FILE", filepath.Join(t.TempDir(), "storage.json"))
	t.Setenv("LOG_LEVEL", "error")
	return srv.URL + httptransport.APIPrefix
}

func runCLI(t *testing.T, baseURL string, args ...string) (string, *app, error) {
	t.Helper()
	a := &app{}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), a, append(args, "--base-url", baseURL), &stdout, &stderr)
	return stdout.String(), a, err
}

func mustRun(t *testing.T, baseURL string, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, baseURL, args...)
	if err != nil {
		t.Fatalf("crmctl %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestPMSessionLifecycle(t *testing.T) {
	baseURL := newBackend(t)

	out := mustRun(t, baseURL, "login", "pm", "--email", backend.FixturePMEmail, "--password", "password123")
	if !strings.Contains(out, "logged in to pm as Priya Manager") {
		t.Fatalf("unexpected login output %q", out)
	}
	if out = mustRun(t, baseURL, "status", "pm"); !strings.Contains(out, "LOGGED_IN") {
		t.Fatalf("expected logged in status, got %q", out)
	}
	if out = mustRun(t, baseURL, "status", "employee"); !strings.Contains(out, "LOGGED_OUT") {
		t.Fatalf("pm login must not log in the employee portal, got %q", out)
	}
	if out = mustRun(t, baseURL, "profile", "pm", "--cached"); !strings.Contains(out, "Priya Manager") {
		t.Fatalf("expected cached profile, got %q", out)
	}
	if out = mustRun(t, baseURL, "projects", "pm"); !strings.Contains(out, "Website Redesign") {
		t.Fatalf("expected seeded project, got %q", out)
	}
	if out = mustRun(t, baseURL, "request", "pm", "get", "/pm/profile"); !strings.Contains(out, backend.FixturePMEmail) {
		t.Fatalf("expected raw profile response, got %q", out)
	}

	if out = mustRun(t, baseURL, "logout", "pm"); !strings.Contains(out, "logged out of pm") {
		t.Fatalf("unexpected logout output %q", out)
	}
	if out = mustRun(t, baseURL, "status", "pm"); !strings.Contains(out, "LOGGED_OUT") {
		t.Fatalf("expected logged out status, got %q", out)
	}
	if _, _, err := runCLI(t, baseURL, "profile", "pm", "--cached"); err == nil {
		t.Fatalf("expected no cached profile after logout")
	}
}

func TestClientOTPLogin(t *testing.T) {
	baseURL := newBackend(t)

	if out := mustRun(t, baseURL, "otp", "send", "--phone", backend.FixtureClientPhone); !strings.Contains(out, "code sent to "+backend.FixtureClientPhone) {
		t.Fatalf("unexpected send output %q", out)
	}
	if out := mustRun(t, baseURL, "otp", "verify", "--phone", backend.FixtureClientPhone, "--code", "123456"); !strings.Contains(out, "logged in to client as Acme Corp") {
		t.Fatalf("unexpected verify output %q", out)
	}
	if out := mustRun(t, baseURL, "projects", "client"); !strings.Contains(out, "Website Redesign") {
		t.Fatalf("expected client project, got %q", out)
	}
}

func TestFailedCommandStillClosesStorage(t *testing.T) {
	baseURL := newBackend(t)

	_, a, err := runCLI(t, baseURL, "login", "pm", "--email", backend.FixturePMEmail, "--password", "wrong")
	if err == nil || err.Error() != "Invalid credentials" {
		t.Fatalf("expected backend rejection, got %v", err)
	}
	if a.logger == nil {
		t.Fatalf("expected the command to have opened its dependencies")
	}
	if a.storage != nil {
		t.Fatalf("expected storage closed after a failed command")
	}
	if requests, _ := a.metrics.Snapshot(); len(requests) == 0 {
		t.Fatalf("expected the login attempt to be counted")
	}
}

func TestUnknownRoleIsRejected(t *testing.T) {
	baseURL := newBackend(t)
	if _, _, err := runCLI(t, baseURL, "logout", "janitor"); err == nil {
		t.Fatalf("expected unknown role error")
	}
}
