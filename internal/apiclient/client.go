package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/observability"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// TokenSource yields the namespace's current non-expired bearer token.
type TokenSource interface {
	Current(ctx context.Context) (domain.SessionToken, bool)
}

// RequestOptions describes one call. Body is either a JSON-serializable value
// or a *Form; Headers are merged on top of the computed defaults.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// Client performs authenticated round trips against the backend REST surface.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds every round trip on top of the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records every round trip in metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient builds a client for baseURL. tokens may be nil for unauthenticated use.
// The client carries a cookie jar so backend cookies ride along with the bearer token.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("api base url is empty")
	}

	c := &Client{
		baseURL:    trimmed,
		tokens:     tokens,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Work on a copy so a caller-supplied client is never mutated.
	httpClient := *c.httpClient
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}
	if c.timeout > 0 {
		httpClient.Timeout = c.timeout
	}
	c.httpClient = &httpClient
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends one request and returns the raw JSON body of a 2xx response.
// Every failure is a *RequestError.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	label := metricPath(path)

	body, multipartType, err := encodeBody(opts.Body)
	if err != nil {
		return nil, c.fail(method, label, newUnknown("Request body could not be encoded", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, c.fail(method, label, newUnknown("", err))
	}
	req.Header = c.BuildHeaders(ctx, opts)
	if multipartType != "" {
		req.Header.Set(headerContentType, multipartType)
	}
	if req.Header.Get(headerRequestID) == "" {
		req.Header.Set(headerRequestID, uuid.NewString())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(method, label, classifyTransportError(err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.RecordRequest(label, method, resp.StatusCode, elapsed)
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", label),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("request_id", req.Header.Get(headerRequestID)),
	)
	if err != nil {
		return nil, c.fail(method, label, newUnknown("Response could not be read", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(method, label, newRequestFailed(resp.StatusCode, payload))
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(trimmed) {
		return nil, c.fail(method, label, newUnknown(malformedBodyMessage, fmt.Errorf("status %d: body is not JSON", resp.StatusCode)))
	}
	return json.RawMessage(trimmed), nil
}

// BuildHeaders computes the headers for opts: bearer token when one is valid,
// JSON content type unless the body is a *Form, then caller headers on top.
// The result never carries Content-Type for a *Form body.
func (c *Client) BuildHeaders(ctx context.Context, opts RequestOptions) http.Header {
	headers := make(http.Header)
	_, isForm := opts.Body.(*Form)
	if !isForm {
		headers.Set(headerContentType, contentTypeJSON)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Current(ctx); ok {
			headers.Set(headerAuthorization, "Bearer "+token.Raw)
		}
	}
	for key, value := range opts.Headers {
		headers.Set(key, value)
	}
	if isForm {
		headers.Del(headerContentType)
	}
	return headers
}

func (c *Client) resolve(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) fail(method, path string, reqErr *RequestError) error {
	reqErr.Method = method
	reqErr.Path = path
	c.metrics.RecordError(path, method, string(reqErr.Kind))
	if reqErr.Kind == KindRequestFailed {
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", reqErr.HTTPStatus),
			zap.String("message", reqErr.Message))
	} else {
		c.logger.Warn("api request error",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("kind", string(reqErr.Kind)),
			zap.Error(reqErr.Err))
	}
	return reqErr
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Form:
		if b == nil {
			return nil, "", nil
		}
		buf, contentType, err := b.encode()
		if err != nil {
			return nil, "", err
		}
		return buf, contentType, nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(encoded), "", nil
	}
}

// classifyTransportError separates "server unreachable" from every other transport failure.
func classifyTransportError(err error) *RequestError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newUnknown("Request was cancelled or timed out", err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newConnectionUnavailable(err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return newConnectionUnavailable(err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return newConnectionUnavailable(err)
	}
	return newUnknown("", err)
}

func metricPath(path string) string {
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	return "/" + strings.TrimLeft(path, "/")
}
