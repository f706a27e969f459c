package events

import (
	"time"

	"github.com/devxankit/crm-saas/internal/domain"
)

// EventType enumerates session lifecycle events.
type EventType string

const (
	EventSessionLoggedIn  EventType = "session.logged_in"
	EventSessionLoggedOut EventType = "session.logged_out"
	EventSessionExpired   EventType = "session.expired"
)

// Event represents a session state transition for one namespace.
type Event struct {
	ID        string               `json:"id"`
	Type      EventType            `json:"type"`
	Namespace domain.NamespaceName `json:"namespace"`
	Timestamp time.Time            `json:"timestamp"`
	Payload   interface{}          `json:"payload,omitempty"`
}

// LoggedInPayload payload.
type LoggedInPayload struct {
	ActorID   string    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoggedOutPayload payload.
type LoggedOutPayload struct {
	// RemoteAcknowledged is false when the backend logout call failed.
	RemoteAcknowledged bool `json:"remote_acknowledged"`
}
