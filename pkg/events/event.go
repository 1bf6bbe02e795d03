package events

import (
	"context"
	"time"
)

const (
	QuestionPending   = "question.pending"
	QuestionAnswered  = "question.answered"
	FeedbackSubmitted = "feedback.submitted"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the subject suffix, e.g. "question.pending".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the only Event implementation the service needs.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher delivers events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
