// Package scope provides the per-event attribute store and the accessor
// that exposes it to code running within the same dispatch.
//
// # Basic Usage
//
// A dispatcher creates one store per event and binds it for the duration of
// processing:
//
//	attrs, err := scope.NewAttributes(evt)
//	if err != nil {
//	    return err
//	}
//	ctx = scope.Bind(ctx, attrs)
//	defer scope.Unbind(ctx)
//
// Any code that receives ctx can then read and write attributes without the
// store being passed explicitly:
//
//	if attrs, ok := scope.Current(ctx); ok {
//	    attrs.SetAttribute("user", user)
//	}
//
// # Isolation
//
// Bindings live in the context, not in goroutine-local state. Every Bind
// creates a new slot, so concurrent dispatches are isolated from each other
// even when they share a parent context. Work that continues on other
// goroutines must be handed the bound context explicitly.
//
// Separate accessors (NewAccessor) keep independent bindings; the
// package-level functions use Default.
package scope
