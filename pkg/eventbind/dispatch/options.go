package dispatch

import (
	"log/slog"

	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
	"github.com/randalmurphal/eventbind/pkg/eventbind/journal"
	"github.com/randalmurphal/eventbind/pkg/eventbind/observability"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLogLevel sets the minimum level the dispatcher logs at, overriding the
// level of the logger's handler. It applies to the logger from WithLogger
// regardless of option order.
func WithLogLevel(level slog.Level) Option {
	return func(d *Dispatcher) {
		d.logLevel = &level
	}
}

// WithResolvers replaces the default resolver chain. The slice order is the
// precedence order.
func WithResolvers(chain handler.Chain) Option {
	return func(d *Dispatcher) {
		d.chain = chain
	}
}

// WithFilters adds filters around handler invocation.
func WithFilters(filters ...Filter) Option {
	return func(d *Dispatcher) {
		d.filters = append(d.filters, filters...)
	}
}

// WithScopeOrder sets the order of the built-in scope filter.
func WithScopeOrder(order int) Option {
	return func(d *Dispatcher) {
		d.scopeOrder = order
	}
}

// WithAccessor sets the accessor the scope filter binds through and the
// default resolvers read from.
func WithAccessor(accessor *scope.Accessor) Option {
	return func(d *Dispatcher) {
		if accessor != nil {
			d.accessor = accessor
		}
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
func WithMetrics(enabled bool) Option {
	return func(d *Dispatcher) {
		if enabled {
			d.metrics = observability.NewMetricsRecorder()
		} else {
			d.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a specific metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithTracing enables or disables OpenTelemetry tracing.
func WithTracing(enabled bool) Option {
	return func(d *Dispatcher) {
		if enabled {
			d.spans = observability.NewSpanManager()
		} else {
			d.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a specific span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(d *Dispatcher) {
		if sm != nil {
			d.spans = sm
		}
	}
}

// WithJournal records failed invocations in store. The dispatcher does not
// close it.
func WithJournal(store journal.Store) Option {
	return func(d *Dispatcher) {
		d.journal = store
	}
}

// WithStopOnError stops invoking the remaining handlers of an event once one
// fails.
func WithStopOnError(stop bool) Option {
	return func(d *Dispatcher) {
		d.stopOnError = stop
	}
}
