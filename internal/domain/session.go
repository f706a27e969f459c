package domain

import "time"

// SessionState is the per-namespace login state.
type SessionState string

const (
	SessionLoggedOut SessionState = "LOGGED_OUT"
	SessionLoggedIn  SessionState = "LOGGED_IN"
)

// SessionToken is a stored bearer token with its decoded expiry.
type SessionToken struct {
	Raw       string
	ExpiresAt time.Time
}

// Expired reports whether exp, in whole seconds, is not after now.
func (t SessionToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Unix() <= now.Unix()
}
