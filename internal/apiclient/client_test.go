package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devxankit/crm-saas/internal/domain"
	"github.com/devxankit/crm-saas/internal/observability"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Current(context.Context) (domain.SessionToken, bool) {
	if s.token == "" {
		return domain.SessionToken{}, false
	}
	return domain.SessionToken{Raw: s.token, ExpiresAt: time.Now().Add(time.Hour)}, true
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/api/", tokens, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestBuildHeadersJSONWithoutToken(t *testing.T) {
	client, err := NewClient("http://localhost:5000/api", staticTokens{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	headers := client.BuildHeaders(context.Background(), RequestOptions{Body: map[string]string{"a": "b"}})
	if got := headers.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json content type, got %q", got)
	}
	if got := headers.Get("Authorization"); got != "" {
		t.Fatalf("expected no authorization header, got %q", got)
	}
}

func TestBuildHeadersBearerAndCallerOverrides(t *testing.T) {
	client, _ := NewClient("http://localhost:5000/api", staticTokens{token: "abc"})
	headers := client.BuildHeaders(context.Background(), RequestOptions{
		Headers: map[string]string{"X-Trace": "1", "Content-Type": "text/plain"},
	})
	if got := headers.Get("Authorization"); got != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", got)
	}
	if got := headers.Get("X-Trace"); got != "1" {
		t.Fatalf("expected caller header to be merged, got %q", got)
	}
	if got := headers.Get("Content-Type"); got != "text/plain" {
		t.Fatalf("expected caller content type to win, got %q", got)
	}
}

func TestBuildHeadersFormNeverCarriesContentType(t *testing.T) {
	client, _ := NewClient("http://localhost:5000/api", staticTokens{token: "abc"})
	headers := client.BuildHeaders(context.Background(), RequestOptions{
		Body:    NewForm().AddField("a", "b"),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if _, ok := headers["Content-Type"]; ok {
		t.Fatalf("form headers must not carry Content-Type, got %v", headers)
	}
	if got := headers.Get("Authorization"); got != "Bearer abc" {
		t.Fatalf("expected bearer header on form request, got %q", got)
	}
}

func TestNewClientRejectsEmptyBaseURL(t *testing.T) {
	if _, err := NewClient("  ", nil); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestRequestSendsJSONAndReturnsRawBody(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotAuth, gotType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth, gotType = r.Header.Get("Authorization"), r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"token":"abc"}}`))
	}, staticTokens{token: "tok"})

	raw, err := client.Request(context.Background(), "/pm/login", RequestOptions{
		Method: "post",
		Body:   map[string]string{"email": "pm@example.com", "password": "pw"},
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/pm/login" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer tok" || gotType != "application/json" {
		t.Fatalf("unexpected headers auth=%q type=%q", gotAuth, gotType)
	}
	var sent map[string]string
	if err := json.Unmarshal([]byte(gotBody), &sent); err != nil || sent["email"] != "pm@example.com" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	if string(raw) != `{"data":{"token":"abc"}}` {
		t.Fatalf("expected raw body unchanged, got %s", raw)
	}
}

func TestRequestDefaultsToGET(t *testing.T) {
	var gotMethod string
	var gotBodyLen int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBodyLen = r.ContentLength
		_, _ = w.Write([]byte(`[1,2]`))
	}, nil)
	raw, err := client.Request(context.Background(), "employee/tasks", RequestOptions{})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotMethod != http.MethodGet || gotBodyLen > 0 {
		t.Fatalf("expected bodiless GET, got %s with %d bytes", gotMethod, gotBodyLen)
	}
	if string(raw) != `[1,2]` {
		t.Fatalf("unexpected body %s", raw)
	}
}

func TestRequestEmptyBodyIsNull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, nil)
	raw, err := client.Request(context.Background(), "/pm/logout", RequestOptions{Method: http.MethodPost})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if string(raw) != "null" {
		t.Fatalf("expected null, got %s", raw)
	}
}

func TestRequestFailureUsesServerMessage(t *testing.T) {
	metrics := observability.NewMetrics()
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	}, nil, WithMetrics(metrics))

	_, err := client.Request(context.Background(), "/pm/login", RequestOptions{Method: http.MethodPost})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected RequestFailed, got %v", err)
	}
	reqErr, ok := AsRequestError(err)
	if !ok {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if reqErr.Message != "Invalid credentials" || err.Error() != "Invalid credentials" {
		t.Fatalf("unexpected message %q", reqErr.Message)
	}
	if reqErr.HTTPStatus != http.StatusUnauthorized || reqErr.Method != http.MethodPost || reqErr.Path != "/pm/login" {
		t.Fatalf("unexpected error details %+v", reqErr)
	}
	if metrics.Errors("/pm/login", http.MethodPost, string(KindRequestFailed)) != 1 {
		t.Fatalf("expected error to be counted")
	}
	if metrics.Requests("/pm/login", http.MethodPost, http.StatusUnauthorized) != 1 {
		t.Fatalf("expected round trip to be counted")
	}
}

func TestRequestFailureFallsBackToGenericMessage(t *testing.T) {
	for name, body := range map[string]string{
		"html":          "<html>bad gateway</html>",
		"empty object":  `{}`,
		"empty message": `{"message":""}`,
		"array":         `["nope"]`,
		"no body":       "",
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(body))
			}, nil)
			_, err := client.Request(context.Background(), "/x", RequestOptions{})
			reqErr, ok := AsRequestError(err)
			if !ok || reqErr.Kind != KindRequestFailed {
				t.Fatalf("expected RequestFailed, got %v", err)
			}
			if reqErr.Message != FallbackMessage {
				t.Fatalf("expected fallback message, got %q", reqErr.Message)
			}
		})
	}
}

func TestRequestConnectionRefusedIsConnectionUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(baseURL, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Request(context.Background(), "/pm/profile", RequestOptions{})
	if !errors.Is(err, ErrConnectionUnavailable) {
		t.Fatalf("expected ConnectionUnavailable, got %v", err)
	}
	if errors.Is(err, ErrRequestFailed) {
		t.Fatalf("connection failure must never be RequestFailed")
	}
	if err.Error() != UnreachableMessage {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRequestMalformedJSONIsUnknown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":`))
	}, nil)
	_, err := client.Request(context.Background(), "/x", RequestOptions{})
	if !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("expected UnknownRequestError, got %v", err)
	}
	reqErr, _ := AsRequestError(err)
	if reqErr.Message == "" {
		t.Fatalf("expected a non-empty message")
	}
}

func TestRequestUnencodableBodyIsUnknown(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Errorf("request must not be sent")
	}, nil)
	_, err := client.Request(context.Background(), "/x", RequestOptions{Method: http.MethodPost, Body: make(chan int)})
	if !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("expected UnknownRequestError, got %v", err)
	}
}

func TestRequestCancelledContextIsUnknown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Request(ctx, "/x", RequestOptions{})
	if !errors.Is(err, ErrUnknownRequest) {
		t.Fatalf("expected UnknownRequestError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestRequestMultipartUpload(t *testing.T) {
	var gotType, gotField, gotFile, gotName string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotField = r.FormValue("note")
		file, header, err := r.FormFile("attachment")
		if err == nil {
			body, _ := io.ReadAll(file)
			gotFile, gotName = string(body), header.Filename
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}, staticTokens{token: "abc"})

	form := NewForm().
		AddField("note", "brief notes").
		AddFile("attachment", "brief.txt", strings.NewReader("hello"))
	if _, err := client.Request(context.Background(), "/pm/projects/p1/attachments", RequestOptions{
		Method: http.MethodPost,
		Body:   form,
	}); err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.HasPrefix(gotType, "multipart/form-data; boundary=") {
		t.Fatalf("expected multipart content type, got %q", gotType)
	}
	if gotField != "brief notes" || gotFile != "hello" || gotName != "brief.txt" {
		t.Fatalf("unexpected form contents field=%q file=%q name=%q", gotField, gotFile, gotName)
	}
}

func TestRequestSendsCookiesBack(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err == nil {
			seen = append(seen, c.Value)
		} else {
			seen = append(seen, "")
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s-1", Path: "/"})
		_, _ = w.Write([]byte(`{}`))
	}, nil)

	for i := 0; i < 2; i++ {
		if _, err := client.Request(context.Background(), "/client/profile", RequestOptions{}); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}
	if len(seen) != 2 || seen[0] != "" || seen[1] != "s-1" {
		t.Fatalf("expected cookie on second request, got %v", seen)
	}
}

func TestRequestSetsRequestID(t *testing.T) {
	var ids []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{}`))
	}, nil)
	_, _ = client.Request(context.Background(), "/a", RequestOptions{})
	_, _ = client.Request(context.Background(), "/a", RequestOptions{Headers: map[string]string{"X-Request-ID": "fixed"}})
	if len(ids) != 2 || ids[0] == "" || ids[1] != "fixed" {
		t.Fatalf("unexpected request ids %v", ids)
	}
}

func TestWithHTTPClientIsNotMutated(t *testing.T) {
	shared := &http.Client{}
	client, err := NewClient("http://localhost:5000/api", nil, WithHTTPClient(shared), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if shared.Jar != nil || shared.Timeout != 0 {
		t.Fatalf("caller http client was mutated")
	}
	if client.httpClient.Timeout != time.Second || client.httpClient.Jar == nil {
		t.Fatalf("expected copied client with timeout and jar")
	}
	if client.BaseURL() != "http://localhost:5000/api" {
		t.Fatalf("unexpected base url %q", client.BaseURL())
	}
}
