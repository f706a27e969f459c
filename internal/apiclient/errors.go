package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a RequestError.
type Kind string

const (
	KindRequestFailed         Kind = "REQUEST_FAILED"
	KindConnectionUnavailable Kind = "CONNECTION_UNAVAILABLE"
	KindUnknown               Kind = "UNKNOWN_REQUEST_ERROR"
)

// Sentinels for errors.Is against a *RequestError of the matching kind.
var (
	ErrRequestFailed         = errors.New("request failed")
	ErrConnectionUnavailable = errors.New("connection unavailable")
	ErrUnknownRequest        = errors.New("unknown request error")
)

const (
	FallbackMessage      = "Something went wrong. Please try again."
	UnreachableMessage   = "Unable to connect to the server. Please check that the backend is running."
	unknownMessage       = "Request could not be completed"
	malformedBodyMessage = "The server returned an invalid response."
	unsuccessfulMessage  = "The server reported a failure."
)

// RequestError is the only error type Request returns. Message is always a
// non-empty string suitable for showing to the user.
type RequestError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Method     string
	Path       string
	// Body is the raw response body for RequestFailed, when it was JSON.
	Body json.RawMessage
	Err  error
}

func (e *RequestError) Error() string {
	if e.Err != nil && e.Kind == KindUnknown {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *RequestError) Is(target error) bool {
	switch e.Kind {
	case KindRequestFailed:
		return target == ErrRequestFailed
	case KindConnectionUnavailable:
		return target == ErrConnectionUnavailable
	case KindUnknown:
		return target == ErrUnknownRequest
	}
	return false
}

// AsRequestError extracts a *RequestError from err.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

func newRequestFailed(status int, body []byte) *RequestError {
	reqErr := &RequestError{
		Kind:       KindRequestFailed,
		Message:    FallbackMessage,
		HTTPStatus: status,
	}
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Valid(body) {
		reqErr.Body = json.RawMessage(body)
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
			reqErr.Message = parsed.Message
		}
	}
	return reqErr
}

func newConnectionUnavailable(err error) *RequestError {
	return &RequestError{
		Kind:    KindConnectionUnavailable,
		Message: UnreachableMessage,
		Err:     err,
	}
}

func newUnknown(message string, err error) *RequestError {
	if message == "" {
		message = unknownMessage
	}
	return &RequestError{
		Kind:    KindUnknown,
		Message: message,
		Err:     err,
	}
}
