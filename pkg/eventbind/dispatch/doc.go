// Package dispatch delivers events to bound handler methods.
//
// A Dispatcher keeps handlers per event type. Dispatch runs the event
// through a FilterChain whose built-in ScopeFilter makes a fresh
// scope.Attributes store current for the event, then invokes each matching
// handler through handler.Invocable with the dispatcher's resolver chain.
//
// Basic usage:
//
//	d := dispatch.New(dispatch.WithLogger(logger))
//	if _, err := d.RegisterMethod("message.text", bot, "OnText",
//		handler.WithAnnotations(1, resolver.Payload{})); err != nil {
//		return err
//	}
//	results, err := d.Dispatch(ctx, event.NewAny("message.text", "telegram", "hi"))
//
// # Failures
//
// Handler failures do not stop the remaining handlers unless
// WithStopOnError is set. Dispatch returns every failure joined with
// errors.Join, each prefixed with the handler name, so errors.Is and
// errors.As work on the combined error. Failures are recorded in the
// journal when one is configured.
//
// # Filters
//
// Filters run in ascending Order. The scope filter runs at
// DefaultScopeOrder; a filter with a lower order sees no scoped store.
package dispatch
