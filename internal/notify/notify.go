// Package notify publishes catalog change notifications.
package notify

import (
	"context"

	"github.com/jensholdgaard/eventdesk/internal/event"
)

// Subjects carrying catalog changes.
const (
	SubjectEventCreated = "events.event.created"
	SubjectEventUpdated = "events.event.updated"
	SubjectEventDeleted = "events.event.deleted"

	// SubjectAll matches every catalog subject.
	SubjectAll = "events.>"
)

// EventCreated is published after a successful create.
type EventCreated struct {
	Event event.Event `json:"event"`
}

// EventUpdated is published after a successful update and carries the new state.
type EventUpdated struct {
	Event event.Event `json:"event"`
}

// EventDeleted is published after a successful delete.
type EventDeleted struct {
	EventID int64 `json:"event_id"`
}

// Publisher is the interface for emitting notifications.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// Subscriber receives notifications.
type Subscriber interface {
	// Subscribe delivers raw payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(subject string) (<-chan []byte, func(), error)
	Close() error
}

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
