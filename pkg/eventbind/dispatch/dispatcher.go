package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
	"github.com/randalmurphal/eventbind/pkg/eventbind/journal"
	"github.com/randalmurphal/eventbind/pkg/eventbind/observability"
	"github.com/randalmurphal/eventbind/pkg/eventbind/resolver"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

// Result is the outcome of one handler invocation.
type Result struct {
	// Handler names the handler as "<component type>.<method>".
	Handler string
	// Value is the value the handler produced, nil on failure.
	Value any
	// Return describes Value. Zero on failure.
	Return handler.ReturnValue
	// Err is the invocation error, if any.
	Err error
}

// Dispatcher routes events to registered handlers by event type.
//
// Each dispatch runs through the filter chain, which always includes a
// ScopeFilter, so handlers and resolvers see a fresh scope.Attributes store
// for the event. Handlers run sequentially in registration order. A failing
// handler does not stop the others unless WithStopOnError is set. Nothing is
// retried.
type Dispatcher struct {
	logger      *slog.Logger
	logLevel    *slog.Level
	chain       handler.Chain
	filters     []Filter
	scopeOrder  int
	accessor    *scope.Accessor
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
	journal     journal.Store
	ownsJournal bool
	stopOnError bool

	filterChain *FilterChain

	mu        sync.RWMutex
	handlers  map[string][]*handler.Descriptor // event type -> handlers
	wildcards []*handler.Descriptor            // handlers for all events
}

// New creates a dispatcher. Without WithResolvers it uses
// resolver.Defaults bound to the dispatcher's accessor.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:     slog.Default(),
		scopeOrder: DefaultScopeOrder,
		accessor:   scope.Default,
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
		handlers:   make(map[string][]*handler.Descriptor),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logLevel != nil {
		d.logger = observability.WithLevel(d.logger, *d.logLevel)
	}
	if d.chain == nil {
		d.chain = resolver.Defaults(d.accessor)
	}

	filters := append([]Filter{NewScopeFilter(d.scopeOrder, d.accessor, d.logger, d.spans)}, d.filters...)
	d.filterChain = NewFilterChain(filters...)
	return d
}

// Register adds a handler for eventType. An empty eventType matches every
// event.
func (d *Dispatcher) Register(eventType string, desc *handler.Descriptor) error {
	if desc == nil {
		return handler.ErrNilDescriptor
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if eventType == "" {
		d.wildcards = append(d.wildcards, desc)
	} else {
		d.handlers[eventType] = append(d.handlers[eventType], desc)
	}
	return nil
}

// RegisterMethod builds a descriptor for the named method of component and
// registers it for eventType.
func (d *Dispatcher) RegisterMethod(eventType string, component any, method string, opts ...handler.MethodOption) (*handler.Descriptor, error) {
	m, err := handler.MethodOf(component, method, opts...)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", method, err)
	}
	desc, err := handler.NewDescriptor(component, m)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", method, err)
	}
	if err := d.Register(eventType, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// Handlers returns the handlers that receive events of eventType: those
// registered for the type, then the wildcard handlers.
func (d *Dispatcher) Handlers(eventType string) []*handler.Descriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*handler.Descriptor, 0, len(d.handlers[eventType])+len(d.wildcards))
	out = append(out, d.handlers[eventType]...)
	out = append(out, d.wildcards...)
	return out
}

// Filters returns the filter chain in execution order, including the scope
// filter.
func (d *Dispatcher) Filters() []Filter {
	return d.filterChain.Filters()
}

// Journal returns the failure journal, or nil.
func (d *Dispatcher) Journal() journal.Store {
	return d.journal
}

// Close releases the journal when the dispatcher created it (FromConfig).
func (d *Dispatcher) Close() error {
	if d.ownsJournal && d.journal != nil {
		return d.journal.Close()
	}
	return nil
}

// Dispatch delivers evt to every matching handler and returns one Result
// per handler invoked. The error joins every handler failure and any error
// returned by a filter. When ctx is cancelled the remaining handlers are
// skipped and reported with the context error.
//
// A panic raised by a handler is not recovered; the scoped store is still
// cleared.
func (d *Dispatcher) Dispatch(ctx context.Context, evt event.Event) ([]Result, error) {
	if evt == nil {
		return nil, scope.ErrNilEvent
	}

	done := observability.TimedOperation()
	start := time.Now()
	logger := observability.EnrichLogger(d.logger, evt.ID(), evt.Type(), evt.CorrelationID())

	ctx, span := d.spans.StartDispatchSpan(ctx, evt.ID(), evt.Type())

	descs := d.Handlers(evt.Type())
	observability.LogDispatchStart(logger, evt.ID(), evt.Type(), len(descs))

	var results []Result
	filterErr := d.filterChain.Run(ctx, evt, func(ctx context.Context, evt event.Event) error {
		results = d.invokeAll(ctx, evt, descs, logger)
		return nil
	})

	var (
		errs   []error
		failed int
	)
	if filterErr != nil {
		errs = append(errs, filterErr)
	}
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Handler, r.Err))
			failed++
		}
	}
	err := errors.Join(errs...)

	d.metrics.RecordDispatch(ctx, evt.Type(), time.Since(start), err)
	d.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogDispatchError(logger, evt.ID(), err, done(), failed)
	} else {
		observability.LogDispatchComplete(logger, evt.ID(), done(), len(results))
	}
	return results, err
}

func (d *Dispatcher) invokeAll(ctx context.Context, evt event.Event, descs []*handler.Descriptor, logger *slog.Logger) []Result {
	results := make([]Result, 0, len(descs))
	for i, desc := range descs {
		if err := ctx.Err(); err != nil {
			for _, skipped := range descs[i:] {
				results = append(results, Result{Handler: skipped.String(), Err: err})
				d.record(evt, skipped.String(), err, logger)
			}
			break
		}

		r := d.invoke(ctx, evt, desc, logger)
		results = append(results, r)
		if r.Err != nil && d.stopOnError {
			break
		}
	}
	return results
}

func (d *Dispatcher) invoke(ctx context.Context, evt event.Event, desc *handler.Descriptor, logger *slog.Logger) Result {
	name := desc.String()
	result := Result{Handler: name}

	ctx, span := d.spans.StartInvokeSpan(ctx, name)
	observability.LogInvokeStart(logger, name)
	done := observability.TimedOperation()
	start := time.Now()

	inv, err := handler.NewInvocable(desc, d.chain, handler.WithLogger(logger))
	if err == nil {
		result.Value, err = inv.Invoke(ctx, evt)
	}

	d.metrics.RecordInvocation(ctx, name, evt.Type(), time.Since(start), err)
	d.spans.EndSpanWithError(span, err)

	if err != nil {
		result.Value = nil
		result.Err = err
		observability.LogInvokeError(logger, name, err, handler.ReportOf(err))
		d.record(evt, name, err, logger)
		return result
	}

	result.Return = desc.ReturnValue(result.Value)
	observability.LogInvokeComplete(logger, name, done())
	return result
}

func (d *Dispatcher) record(evt event.Event, name string, err error, logger *slog.Logger) {
	if d.journal == nil {
		return
	}
	if _, jerr := d.journal.Record(journal.NewEntry(evt, name, err)); jerr != nil {
		observability.LogJournalError(logger, name, jerr)
	}
}
