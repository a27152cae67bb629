// Package journal records failed handler invocations for later inspection.
//
// The journal is an audit trail: entries are never replayed.
package journal

import (
	"errors"
	"time"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Record stores an entry. An empty ID is filled with a new UUID and a
	// zero RecordedAt with the current time. Returns the stored entry.
	Record(e Entry) (Entry, error)

	// Get retrieves an entry by ID.
	// Returns ErrNotFound if the entry doesn't exist.
	Get(id string) (Entry, error)

	// List returns entries matching f, newest first.
	// Returns an empty slice (not error) when nothing matches.
	List(f Filter) ([]Entry, error)

	// Count returns the number of stored entries.
	Count() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Kind classifies a failure.
type Kind string

// Failure kinds.
const (
	KindBinding    Kind = "binding"
	KindArgument   Kind = "argument"
	KindInvocation Kind = "invocation"
	KindHandler    Kind = "handler"
	KindResolver   Kind = "resolver"
	KindCancelled  Kind = "cancelled"
)

// Kinds lists every failure kind.
var Kinds = []Kind{KindBinding, KindArgument, KindInvocation, KindHandler, KindResolver, KindCancelled}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Entry is one recorded failure.
type Entry struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Handler    string    `json:"handler"`
	Kind       Kind      `json:"kind"`
	Message    string    `json:"message"`
	Report     string    `json:"report,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Filter selects entries in List. Zero fields match everything.
type Filter struct {
	EventType string
	Kind      Kind
	Handler   string
	Since     time.Time
	// Limit caps the number of entries returned; 0 means no limit.
	Limit int
}

func (f Filter) matches(e Entry) bool {
	if f.EventType != "" && e.EventType != f.EventType {
		return false
	}
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Handler != "" && e.Handler != f.Handler {
		return false
	}
	if !f.Since.IsZero() && e.RecordedAt.Before(f.Since) {
		return false
	}
	return true
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates an entry doesn't exist.
	ErrNotFound = errors.New("journal entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)
