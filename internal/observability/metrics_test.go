package observability

import (
	"testing"
	"time"

	"github.com/devxankit/crm-saas/internal/config"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/pm/login", "POST", 200, 10*time.Millisecond)
	m.RecordRequest("/pm/login", "POST", 200, 5*time.Millisecond)
	m.RecordRequest("/pm/login", "POST", 401, time.Millisecond)
	m.RecordError("/pm/login", "POST", "REQUEST_FAILED")

	if got := m.Requests("/pm/login", "POST", 200); got != 2 {
		t.Fatalf("expected 2 successful requests, got %d", got)
	}
	if got := m.Errors("/pm/login", "POST", "REQUEST_FAILED"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	requests, errs := m.Snapshot()
	if requests["/pm/login|POST|401"] != 1 || errs["/pm/login|POST|REQUEST_FAILED"] != 1 {
		t.Fatalf("unexpected snapshot %v %v", requests, errs)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, time.Second)
	m.RecordError("/x", "GET", "UNKNOWN")
	if m.Requests("/x", "GET", 200) != 0 || m.Errors("/x", "GET", "UNKNOWN") != 0 {
		t.Fatalf("nil metrics must report zero")
	}
	requests, errs := m.Snapshot()
	if len(requests) != 0 || len(errs) != 0 {
		t.Fatalf("nil metrics must snapshot empty")
	}
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []config.LoggerConfig{
		{Level: "debug", Encoding: "json"},
		{Level: "WARN", Encoding: "console"},
		{Level: "nonsense", Encoding: ""},
	} {
		logger, err := NewLogger(cfg)
		if err != nil {
			t.Fatalf("new logger %+v: %v", cfg, err)
		}
		_ = logger.Sync()
	}
}
