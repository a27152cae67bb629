package scope

import (
	"errors"
	"sync"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
)

// ErrNilEvent is returned when a store is created without an event.
var ErrNilEvent = errors.New("event must not be nil")

// Attributes is the mutable key-value store bound to the processing of one
// event. It is safe for concurrent use.
type Attributes struct {
	evt event.Event

	mu    sync.RWMutex
	attrs map[string]any
}

// NewAttributes creates an empty store for evt.
func NewAttributes(evt event.Event) (*Attributes, error) {
	if evt == nil {
		return nil, ErrNilEvent
	}
	return &Attributes{
		evt:   evt,
		attrs: make(map[string]any),
	}, nil
}

// Event returns the event this store is bound to.
func (a *Attributes) Event() event.Event {
	return a.evt
}

// Attribute returns the value stored under name and whether it exists.
func (a *Attributes) Attribute(name string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.attrs[name]
	return v, ok
}

// SetAttribute stores value under name, replacing any existing value.
func (a *Attributes) SetAttribute(name string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attrs[name] = value
}

// RemoveAttribute deletes name. It is a no-op if name is not set.
func (a *Attributes) RemoveAttribute(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.attrs, name)
}

// AttributeNames returns a snapshot of the currently set names.
// The order is not guaranteed.
func (a *Attributes) AttributeNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.attrs))
	for name := range a.attrs {
		names = append(names, name)
	}
	return names
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.attrs)
}
