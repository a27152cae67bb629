// Package handler describes handler methods bound to components and invokes
// them against events.
//
// # Building a handler
//
// A Method can be built by reflection from a component's exported method:
//
//	m, err := handler.MethodOf(bot, "Start",
//	    handler.WithParamNames("name", "chatID"),
//	    handler.WithAnnotations(0, resolver.Command{}),
//	)
//
// or from an explicit closure, which avoids reflection at call time:
//
//	m, err := handler.NewMethod("Start", reflect.TypeFor[*Bot](),
//	    func(recv any, args []any) (any, error) { ... },
//	    handler.WithParams(reflect.TypeFor[string]()),
//	)
//
// The method is bound to its component with NewDescriptor, once, at
// registration. Descriptors are immutable and safe to share.
//
// # Invoking
//
// An Invocable pairs a descriptor with a resolver Chain:
//
//	inv, err := handler.NewInvocable(desc, handler.Chain{
//	    resolver.ContextResolver{},
//	    resolver.EventResolver{},
//	})
//	result, err := inv.Invoke(ctx, evt)
//
// Arguments are resolved left to right; the first resolver that supports a
// parameter wins and unsupported parameters receive nil.
//
// # Errors
//
// Errors returned by the handler body and by resolvers reach the caller
// unchanged. Failures at the call boundary are reported as:
//
//   - *BindingError: the component cannot receive the declared method,
//     typically because a Proxy wraps it
//   - *ArgumentError: the argument vector does not fit the parameters
//   - *InvocationError: any other call failure
//
// All three carry a diagnostic report (see ReportOf) naming the component
// type, the method signature and every argument value.
package handler
