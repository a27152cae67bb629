package dispatch

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/eventbind/pkg/eventbind/config"
	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/observability"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

// DefaultScopeOrder is the order of the scope filter unless configured
// otherwise.
const DefaultScopeOrder = config.DefaultScopeFilterOrder

// ScopeFilter binds a fresh scope.Attributes store for each event and
// clears it when processing returns, fails or panics. Binding and clearing
// are logged at debug level and added as events to the current span.
type ScopeFilter struct {
	order    int
	accessor *scope.Accessor
	logger   *slog.Logger
	spans    observability.SpanManager
}

// NewScopeFilter creates a scope filter. A nil accessor uses scope.Default
// and nil spans records no span events.
func NewScopeFilter(order int, accessor *scope.Accessor, logger *slog.Logger, spans observability.SpanManager) *ScopeFilter {
	if accessor == nil {
		accessor = scope.Default
	}
	if spans == nil {
		spans = observability.NoopSpanManager{}
	}
	return &ScopeFilter{order: order, accessor: accessor, logger: logger, spans: spans}
}

// Order implements Filter.
func (f *ScopeFilter) Order() int {
	return f.order
}

// DoFilter implements Filter.
func (f *ScopeFilter) DoFilter(ctx context.Context, evt event.Event, next Next) error {
	attrs, err := scope.NewAttributes(evt)
	if err != nil {
		return err
	}

	ctx = f.accessor.Bind(ctx, attrs)
	observability.LogScopeBound(f.logger, evt.ID())
	f.spans.AddSpanEvent(ctx, "scope.bound", attribute.String("accessor", f.accessor.String()))
	defer func() {
		f.accessor.Unbind(ctx)
		observability.LogScopeCleared(f.logger, evt.ID())
		f.spans.AddSpanEvent(ctx, "scope.cleared", attribute.String("accessor", f.accessor.String()))
	}()

	return next(ctx, evt)
}
