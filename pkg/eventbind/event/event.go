// Package event defines the inbound message that drives one dispatch cycle.
//
// The dispatch core treats an Event as opaque: only argument resolvers look
// inside it. BaseEvent is a ready-made implementation with a typed payload
// for callers that do not bring their own event type.
package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an inbound message. Events are immutable for the duration of a
// dispatch.
type Event interface {
	ID() string     // Unique event identifier
	Type() string   // Event type used for handler lookup (e.g. "message.text")
	Source() string // Origin of the event (e.g. "telegram", "webhook")

	CorrelationID() string // Groups related events
	Timestamp() time.Time  // When the event occurred

	Data() any // Payload
}

// Metadata contains the common event fields.
type Metadata struct {
	EventID       string    `json:"id"`
	EventType     string    `json:"type"`
	EventSource   string    `json:"source"`
	CorrelationID string    `json:"correlation_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// BaseEvent is a generic Event with a payload of type T.
type BaseEvent[T any] struct {
	Meta    Metadata `json:"metadata"`
	Payload T        `json:"payload"`
}

// ID returns the unique event identifier.
func (e *BaseEvent[T]) ID() string {
	return e.Meta.EventID
}

// Type returns the event type.
func (e *BaseEvent[T]) Type() string {
	return e.Meta.EventType
}

// Source returns the event source.
func (e *BaseEvent[T]) Source() string {
	return e.Meta.EventSource
}

// CorrelationID returns the correlation ID.
func (e *BaseEvent[T]) CorrelationID() string {
	return e.Meta.CorrelationID
}

// Timestamp returns when the event occurred.
func (e *BaseEvent[T]) Timestamp() time.Time {
	return e.Meta.Timestamp
}

// Data returns the payload.
func (e *BaseEvent[T]) Data() any {
	return e.Payload
}

// TypedData returns the strongly-typed payload.
func (e *BaseEvent[T]) TypedData() T {
	return e.Payload
}

// String renders the event for log lines and diagnostic reports.
func (e *BaseEvent[T]) String() string {
	return e.Meta.EventType + "#" + e.Meta.EventID
}

// MarshalJSON implements json.Marshaler.
func (e *BaseEvent[T]) MarshalJSON() ([]byte, error) {
	type alias BaseEvent[T]
	return json.Marshal((*alias)(e))
}

// Option configures event creation.
type Option func(*eventConfig)

type eventConfig struct {
	id            string
	correlationID string
	timestamp     time.Time
}

// WithID sets a specific event ID (default: random UUID).
func WithID(id string) Option {
	return func(cfg *eventConfig) {
		cfg.id = id
	}
}

// WithCorrelationID sets the correlation ID (default: the event ID).
func WithCorrelationID(id string) Option {
	return func(cfg *eventConfig) {
		cfg.correlationID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(cfg *eventConfig) {
		cfg.timestamp = t
	}
}

// New creates an event with the given type, source and payload.
func New[T any](eventType, source string, payload T, opts ...Option) *BaseEvent[T] {
	cfg := &eventConfig{
		id:        uuid.New().String(),
		timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.correlationID == "" {
		cfg.correlationID = cfg.id
	}

	return &BaseEvent[T]{
		Meta: Metadata{
			EventID:       cfg.id,
			EventType:     eventType,
			EventSource:   source,
			CorrelationID: cfg.correlationID,
			Timestamp:     cfg.timestamp,
		},
		Payload: payload,
	}
}

// NewAny creates an event with an untyped payload.
func NewAny(eventType, source string, payload any, opts ...Option) *BaseEvent[any] {
	return New(eventType, source, payload, opts...)
}

// NewFromParent creates an event that inherits the parent's correlation ID.
func NewFromParent[T any](parent Event, eventType, source string, payload T, opts ...Option) *BaseEvent[T] {
	allOpts := append([]Option{WithCorrelationID(parent.CorrelationID())}, opts...)
	return New(eventType, source, payload, allOpts...)
}
