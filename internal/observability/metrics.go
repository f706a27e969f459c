package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-memory counters for API round trips.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	latency      map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		latency:      make(map[string]time.Duration),
	}
}

// RecordRequest counts a completed round trip and accumulates its latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.latency[key] += duration
}

// RecordError counts a failed round trip by error kind.
func (m *Metrics) RecordError(path, method, kind string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, kind)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Requests returns the request count for path, method and status.
func (m *Metrics) Requests(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[pathKey(path, method, strconv.Itoa(status))]
}

// Errors returns the error count for path, method and kind.
func (m *Metrics) Errors(path, method, kind string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[pathKey(path, method, kind)]
}

// Snapshot copies the current counters, keyed "path|method|status-or-kind".
func (m *Metrics) Snapshot() (requests, errors map[string]int64) {
	requests = make(map[string]int64)
	errors = make(map[string]int64)
	if m == nil {
		return requests, errors
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.requestCount {
		requests[k] = v
	}
	for k, v := range m.errorCount {
		errors[k] = v
	}
	return requests, errors
}

func pathKey(path, method, suffix string) string {
	return path + "|" + method + "|" + suffix
}
