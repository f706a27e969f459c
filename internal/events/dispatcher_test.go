package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventSessionLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventSessionLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "second")
		return errors.New("later")
	})
	d.Subscribe(EventSessionLoggedOut, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventSessionLoggedIn})
	if !errors.Is(err, boom) {
		t.Fatalf("expected first handler error, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestDispatcherWithoutListeners(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventSessionExpired}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
