package handler

import (
	"context"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
)

// Resolver produces handler arguments from an event.
//
// Supports must be pure and cheap; it is consulted for every parameter of
// every invocation. Resolve is only called for parameters the resolver
// supports. An error from Resolve aborts the invocation and reaches the
// caller unchanged.
type Resolver interface {
	Supports(p Parameter) bool
	Resolve(ctx context.Context, p Parameter, evt event.Event) (any, error)
}

// ResolverFunc adapts a pair of functions to the Resolver interface.
type ResolverFunc struct {
	SupportsFunc func(p Parameter) bool
	ResolveFunc  func(ctx context.Context, p Parameter, evt event.Event) (any, error)
}

// Supports implements Resolver.
func (f ResolverFunc) Supports(p Parameter) bool {
	return f.SupportsFunc != nil && f.SupportsFunc(p)
}

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, p Parameter, evt event.Event) (any, error) {
	if f.ResolveFunc == nil {
		return nil, nil
	}
	return f.ResolveFunc(ctx, p, evt)
}

// Chain is an ordered list of resolvers. The first resolver that supports a
// parameter wins, so the slice order is the precedence order.
type Chain []Resolver

// Supports reports whether any resolver in the chain supports p.
func (c Chain) Supports(p Parameter) bool {
	return c.Resolver(p) != nil
}

// Resolver returns the first resolver supporting p, or nil.
func (c Chain) Resolver(p Parameter) Resolver {
	for _, r := range c {
		if r != nil && r.Supports(p) {
			return r
		}
	}
	return nil
}

// Resolve resolves p with the first supporting resolver. A parameter no
// resolver supports resolves to nil without error.
func (c Chain) Resolve(ctx context.Context, p Parameter, evt event.Event) (any, error) {
	r := c.Resolver(p)
	if r == nil {
		return nil, nil
	}
	return r.Resolve(ctx, p, evt)
}
