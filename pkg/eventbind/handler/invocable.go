package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
)

const (
	illegalArgument   = "Illegal argument"
	invocationFailure = "Invocation failure"
)

// NameDiscoverer assigns names to handler parameters.
type NameDiscoverer interface {
	ParameterName(m *Method, index int) string
}

// DefaultNameDiscoverer uses the names configured with WithParamNames and
// falls back to "argN".
type DefaultNameDiscoverer struct{}

// ParameterName implements NameDiscoverer.
func (DefaultNameDiscoverer) ParameterName(m *Method, index int) string {
	if names := m.ParamNames(); index < len(names) && names[index] != "" {
		return names[index]
	}
	return fmt.Sprintf("arg%d", index)
}

// Invocable runs a handler descriptor against events, resolving arguments
// through a resolver chain. It is a cheap wrapper; the descriptor's metadata
// is shared, not copied.
type Invocable struct {
	descriptor *Descriptor
	chain      Chain
	names      NameDiscoverer
	logger     *slog.Logger
}

// InvocableOption configures an Invocable.
type InvocableOption func(*Invocable)

// WithNameDiscoverer sets the parameter name strategy.
func WithNameDiscoverer(nd NameDiscoverer) InvocableOption {
	return func(inv *Invocable) {
		if nd != nil {
			inv.names = nd
		}
	}
}

// WithLogger sets the logger used for argument tracing.
func WithLogger(logger *slog.Logger) InvocableOption {
	return func(inv *Invocable) {
		if logger != nil {
			inv.logger = logger
		}
	}
}

// NewInvocable wraps d with the resolver chain.
func NewInvocable(d *Descriptor, chain Chain, opts ...InvocableOption) (*Invocable, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}
	inv := &Invocable{
		descriptor: d,
		chain:      chain,
		names:      DefaultNameDiscoverer{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// Descriptor returns the wrapped descriptor.
func (inv *Invocable) Descriptor() *Descriptor {
	return inv.descriptor
}

// Invoke resolves the handler's arguments from evt and calls it.
//
// A resolver error is returned as is. An error returned by the handler body
// is also returned as is. Call-boundary failures come back as
// *BindingError, *ArgumentError or *InvocationError, each carrying a
// diagnostic report.
func (inv *Invocable) Invoke(ctx context.Context, evt event.Event) (any, error) {
	args, err := inv.resolveArguments(ctx, evt)
	if err != nil {
		return nil, err
	}
	if inv.logger.Enabled(ctx, slog.LevelDebug) {
		inv.logger.DebugContext(ctx, "invoking handler",
			slog.String("handler", inv.descriptor.String()),
			slog.String("args", fmt.Sprint(args)),
		)
	}
	return inv.doInvoke(args)
}

func (inv *Invocable) resolveArguments(ctx context.Context, evt event.Event) ([]any, error) {
	params := inv.descriptor.params
	if len(params) == 0 {
		return []any{}, nil
	}

	target := inv.descriptor.target()
	args := make([]any, len(params))
	for i, p := range params {
		p = p.withName(inv.names.ParameterName(target, i))
		v, err := inv.chain.Resolve(ctx, p, evt)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// doInvoke calls the target and translates the call mechanism's failure.
// Only the outermost error is inspected: a handler error that wraps a
// mismatch from a nested invocation still propagates unchanged. A
// RaisedError without an inner error is the one route to "Invocation
// failure", since Method.Call reports every other failure as a
// MismatchError or a RaisedError.
func (inv *Invocable) doInvoke(args []any) (any, error) {
	d := inv.descriptor
	result, err := d.target().Call(d.component, args)
	if err == nil {
		return result, nil
	}

	switch e := err.(type) {
	case *MismatchError:
		if bindErr := d.assertTarget(args, err); bindErr != nil {
			return nil, bindErr
		}
		text := e.Message
		if text == "" || e.Nil {
			text = illegalArgument
		}
		return nil, &ArgumentError{
			Report: d.FormatInvokeError(text, args),
			Err:    err,
		}
	case *RaisedError:
		if e.Err != nil {
			return nil, e.Err
		}
	}

	return nil, &InvocationError{
		Report: d.FormatInvokeError(invocationFailure, args),
		Err:    err,
	}
}
