package dispatch

import (
	"context"
	"slices"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
)

// Next continues processing of an event.
type Next func(ctx context.Context, evt event.Event) error

// Filter wraps the processing of an event. A filter must call next to let
// processing continue, and may stop it by returning without doing so.
type Filter interface {
	// Order positions the filter in the chain; lower values run first.
	Order() int

	// DoFilter processes evt and normally calls next.
	DoFilter(ctx context.Context, evt event.Event, next Next) error
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc struct {
	order int
	fn    func(ctx context.Context, evt event.Event, next Next) error
}

// NewFilterFunc creates a filter at the given order.
func NewFilterFunc(order int, fn func(ctx context.Context, evt event.Event, next Next) error) FilterFunc {
	return FilterFunc{order: order, fn: fn}
}

// Order implements Filter.
func (f FilterFunc) Order() int { return f.order }

// DoFilter implements Filter.
func (f FilterFunc) DoFilter(ctx context.Context, evt event.Event, next Next) error {
	return f.fn(ctx, evt, next)
}

// FilterChain runs filters in ascending order. Filters with equal order run
// in the order they were added.
type FilterChain struct {
	filters []Filter
}

// NewFilterChain creates a chain from filters. Nil filters are skipped.
func NewFilterChain(filters ...Filter) *FilterChain {
	sorted := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			sorted = append(sorted, f)
		}
	}
	slices.SortStableFunc(sorted, func(a, b Filter) int {
		return a.Order() - b.Order()
	})
	return &FilterChain{filters: sorted}
}

// Filters returns the filters in execution order.
func (c *FilterChain) Filters() []Filter {
	return slices.Clone(c.filters)
}

// Run passes evt through every filter and finally to terminal.
func (c *FilterChain) Run(ctx context.Context, evt event.Event, terminal Next) error {
	var step func(i int) Next
	step = func(i int) Next {
		if i == len(c.filters) {
			return terminal
		}
		return func(ctx context.Context, evt event.Event) error {
			return c.filters[i].DoFilter(ctx, evt, step(i+1))
		}
	}
	return step(0)(ctx, evt)
}
