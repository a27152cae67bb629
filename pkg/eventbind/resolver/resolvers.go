package resolver

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/randalmurphal/eventbind/pkg/eventbind/event"
	"github.com/randalmurphal/eventbind/pkg/eventbind/handler"
	"github.com/randalmurphal/eventbind/pkg/eventbind/scope"
)

var (
	// ErrUnresolvable is wrapped by every error a resolver in this package
	// returns. Custom resolvers should wrap it too so failures can be told
	// apart from errors raised by handlers.
	ErrUnresolvable = errors.New("argument cannot be resolved")

	// ErrEventType indicates the event cannot be assigned to the parameter.
	ErrEventType = fmt.Errorf("%w: event type does not match parameter", ErrUnresolvable)

	// ErrPayloadType indicates the event payload cannot be assigned to the
	// parameter.
	ErrPayloadType = fmt.Errorf("%w: event payload does not match parameter", ErrUnresolvable)

	// ErrAttributeType indicates a scoped attribute cannot be assigned to the
	// parameter.
	ErrAttributeType = fmt.Errorf("%w: attribute does not match parameter", ErrUnresolvable)
)

var (
	eventType      = reflect.TypeFor[event.Event]()
	contextType    = reflect.TypeFor[context.Context]()
	attributesType = reflect.TypeFor[*scope.Attributes]()
)

// Payload marks a parameter as bound to the event payload.
type Payload struct{}

// Attribute marks a parameter as bound to the named scoped attribute.
type Attribute struct {
	Name string
}

// EventResolver passes the event itself to parameters declared as
// event.Event or as a concrete event type.
type EventResolver struct{}

// Supports implements handler.Resolver.
func (EventResolver) Supports(p handler.Parameter) bool {
	return p.Type().Implements(eventType)
}

// Resolve implements handler.Resolver.
func (EventResolver) Resolve(_ context.Context, p handler.Parameter, evt event.Event) (any, error) {
	if evt == nil {
		return nil, nil
	}
	if !reflect.TypeOf(evt).AssignableTo(p.Type()) {
		return nil, fmt.Errorf("%w: %T is not assignable to %s", ErrEventType, evt, p.Type())
	}
	return evt, nil
}

// PayloadResolver passes event.Data() to parameters annotated with Payload.
type PayloadResolver struct{}

// Supports implements handler.Resolver.
func (PayloadResolver) Supports(p handler.Parameter) bool {
	return handler.HasAnnotation[Payload](p)
}

// Resolve implements handler.Resolver.
func (PayloadResolver) Resolve(_ context.Context, p handler.Parameter, evt event.Event) (any, error) {
	if evt == nil || evt.Data() == nil {
		return nil, nil
	}
	data := evt.Data()
	if !reflect.TypeOf(data).AssignableTo(p.Type()) {
		return nil, fmt.Errorf("%w: %s payload %T is not assignable to %s", ErrPayloadType, evt.Type(), data, p.Type())
	}
	return data, nil
}

// ContextResolver passes the invocation context to context.Context
// parameters.
type ContextResolver struct{}

// Supports implements handler.Resolver.
func (ContextResolver) Supports(p handler.Parameter) bool {
	return p.Type() == contextType
}

// Resolve implements handler.Resolver.
func (ContextResolver) Resolve(ctx context.Context, _ handler.Parameter, _ event.Event) (any, error) {
	return ctx, nil
}

// AttributesResolver passes the current scoped store to *scope.Attributes
// parameters, or nil when nothing is bound.
type AttributesResolver struct {
	// Accessor to read from. Nil uses scope.Default.
	Accessor *scope.Accessor
}

// Supports implements handler.Resolver.
func (AttributesResolver) Supports(p handler.Parameter) bool {
	return p.Type() == attributesType
}

// Resolve implements handler.Resolver.
func (r AttributesResolver) Resolve(ctx context.Context, _ handler.Parameter, _ event.Event) (any, error) {
	if attrs, ok := accessorOr(r.Accessor).Current(ctx); ok {
		return attrs, nil
	}
	return nil, nil
}

// AttributeResolver passes the scoped attribute named by an Attribute
// annotation. Missing attributes and an unbound scope resolve to nil.
type AttributeResolver struct {
	// Accessor to read from. Nil uses scope.Default.
	Accessor *scope.Accessor
}

// Supports implements handler.Resolver.
func (AttributeResolver) Supports(p handler.Parameter) bool {
	return handler.HasAnnotation[Attribute](p)
}

// Resolve implements handler.Resolver.
func (r AttributeResolver) Resolve(ctx context.Context, p handler.Parameter, _ event.Event) (any, error) {
	ann, _ := handler.AnnotationOf[Attribute](p)
	attrs, ok := accessorOr(r.Accessor).Current(ctx)
	if !ok {
		return nil, nil
	}
	v, ok := attrs.Attribute(ann.Name)
	if !ok || v == nil {
		return nil, nil
	}
	if !reflect.TypeOf(v).AssignableTo(p.Type()) {
		return nil, fmt.Errorf("%w: attribute %q of type %T is not assignable to %s", ErrAttributeType, ann.Name, v, p.Type())
	}
	return v, nil
}

func accessorOr(a *scope.Accessor) *scope.Accessor {
	if a == nil {
		return scope.Default
	}
	return a
}

// Defaults returns the standard chain. Order is precedence: the first
// resolver supporting a parameter wins.
//
//  1. ContextResolver
//  2. AttributesResolver
//  3. AttributeResolver
//  4. PayloadResolver
//  5. EventResolver
//  6. CommandResolver
func Defaults(accessor *scope.Accessor) handler.Chain {
	return handler.Chain{
		ContextResolver{},
		AttributesResolver{Accessor: accessor},
		AttributeResolver{Accessor: accessor},
		PayloadResolver{},
		EventResolver{},
		CommandResolver{},
	}
}
