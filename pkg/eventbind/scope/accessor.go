package scope

import (
	"context"
	"sync"
)

// Accessor exposes the Attributes current for a unit of work.
//
// Bindings travel with a context.Context. Bind always installs a fresh slot,
// so two dispatches started from the same parent context never observe each
// other's store. Unbind clears the slot in place: goroutines that captured
// the bound context see nothing once the dispatch has finished.
type Accessor struct {
	name string
}

// slot holds the binding for one unit of work.
type slot struct {
	mu    sync.RWMutex
	attrs *Attributes
}

// NewAccessor creates an accessor. The name only shows up in String.
func NewAccessor(name string) *Accessor {
	return &Accessor{name: name}
}

// Default is the process-wide accessor used by the package-level functions.
var Default = NewAccessor("event attributes")

// String returns the accessor name.
func (a *Accessor) String() string {
	return a.name
}

// Bind returns a context in which attrs is current, replacing any binding
// visible from ctx without merging.
func (a *Accessor) Bind(ctx context.Context, attrs *Attributes) context.Context {
	return context.WithValue(ctx, a, &slot{attrs: attrs})
}

// Unbind clears the binding visible from ctx. It is safe to call when
// nothing is bound and may be called more than once.
func (a *Accessor) Unbind(ctx context.Context) {
	s, ok := ctx.Value(a).(*slot)
	if !ok {
		return
	}
	s.mu.Lock()
	s.attrs = nil
	s.mu.Unlock()
}

// Current returns the store bound to ctx, if any.
func (a *Accessor) Current(ctx context.Context) (*Attributes, bool) {
	s, ok := ctx.Value(a).(*slot)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attrs, s.attrs != nil
}

// Bind binds attrs through the Default accessor.
func Bind(ctx context.Context, attrs *Attributes) context.Context {
	return Default.Bind(ctx, attrs)
}

// Unbind clears the Default accessor's binding visible from ctx.
func Unbind(ctx context.Context) {
	Default.Unbind(ctx)
}

// Current returns the store bound through the Default accessor.
func Current(ctx context.Context) (*Attributes, bool) {
	return Default.Current(ctx)
}
