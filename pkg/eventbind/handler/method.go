package handler

import (
	"fmt"
	"reflect"
	"strings"
)

var errorType = reflect.TypeFor[error]()

// CallFunc runs a handler body on receiver with a validated argument vector.
// An error it returns is treated as raised by the handler body, unless it is
// a *MismatchError or *RaisedError, which pass through untouched.
type CallFunc func(receiver any, args []any) (any, error)

// Method describes one handler method: where it is declared, its parameters
// and result, and the closure that runs it. Methods are immutable and safe
// to share.
type Method struct {
	name        string
	declaring   reflect.Type
	params      []reflect.Type
	names       []string
	annotations map[int][]any
	result      reflect.Type
	returnsErr  bool
	call        CallFunc
}

// MethodOption configures a Method.
type MethodOption func(*Method)

// WithParams sets the parameter types of a method built with NewMethod.
func WithParams(types ...reflect.Type) MethodOption {
	return func(m *Method) {
		m.params = types
	}
}

// WithResult sets the declared result type. Leave unset for handlers that
// produce no value.
func WithResult(t reflect.Type) MethodOption {
	return func(m *Method) {
		m.result = t
	}
}

// WithParamNames sets parameter names, in declaration order.
func WithParamNames(names ...string) MethodOption {
	return func(m *Method) {
		m.names = names
	}
}

// WithAnnotations attaches metadata values to the parameter at index.
// Resolvers look them up with AnnotationOf.
func WithAnnotations(index int, annotations ...any) MethodOption {
	return func(m *Method) {
		if m.annotations == nil {
			m.annotations = make(map[int][]any)
		}
		m.annotations[index] = append(m.annotations[index], annotations...)
	}
}

// WithDeclaringType overrides the type the method is declared on. Use it to
// register a component through a capability interface rather than its
// concrete type.
func WithDeclaringType(t reflect.Type) MethodOption {
	return func(m *Method) {
		m.declaring = t
	}
}

// NewMethod builds a Method around an explicit call closure. No reflection
// is used when the method is called.
//
// Example:
//
//	m, err := handler.NewMethod("Start", reflect.TypeFor[*Bot](),
//	    func(recv any, args []any) (any, error) {
//	        return recv.(*Bot).Start(args[0].(string))
//	    },
//	    handler.WithParams(reflect.TypeFor[string]()),
//	    handler.WithResult(reflect.TypeFor[string]()),
//	)
func NewMethod(name string, declaring reflect.Type, call CallFunc, opts ...MethodOption) (*Method, error) {
	if call == nil {
		return nil, ErrNilCall
	}
	if declaring == nil {
		return nil, fmt.Errorf("method %s: declaring type is required", name)
	}

	m := &Method{
		name:       name,
		declaring:  declaring,
		returnsErr: true,
		call:       call,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.validateOptions(); err != nil {
		return nil, err
	}
	return m, nil
}

// MethodOf builds a Method for the exported method name of component using
// reflection. The method may return nothing, a value, an error, or a value
// and an error.
//
// WithParams and WithResult are ignored; the signature comes from the
// method itself. When WithDeclaringType names an interface, the signature is
// taken from the interface and any receiver implementing it can be called.
func MethodOf(component any, name string, opts ...MethodOption) (*Method, error) {
	if component == nil {
		return nil, ErrNilComponent
	}

	m := &Method{
		name:      name,
		declaring: reflect.TypeOf(component),
	}
	for _, opt := range opts {
		opt(m)
	}

	var sig reflect.Type
	if m.declaring.Kind() == reflect.Interface {
		im, ok := m.declaring.MethodByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, m.declaring, name)
		}
		sig = im.Type
	} else {
		rm, ok := m.declaring.MethodByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, m.declaring, name)
		}
		// Drop the receiver from the method expression's signature
		sig = dropReceiver(rm.Type)
	}

	result, returnsErr, err := resultShape(sig)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", m.declaring, name, err)
	}

	m.params = make([]reflect.Type, sig.NumIn())
	for i := range m.params {
		m.params[i] = sig.In(i)
	}
	m.result = result
	m.returnsErr = returnsErr
	m.call = reflectCall(name, sig.IsVariadic(), result != nil, returnsErr)

	if err := m.validateOptions(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Method) validateOptions() error {
	if m.names != nil && len(m.names) != len(m.params) {
		return fmt.Errorf("method %s: %d parameter names for %d parameters", m.name, len(m.names), len(m.params))
	}
	for idx := range m.annotations {
		if idx < 0 || idx >= len(m.params) {
			return fmt.Errorf("method %s: annotation index %d out of range", m.name, idx)
		}
	}
	return nil
}

// Name returns the method name.
func (m *Method) Name() string {
	return m.name
}

// DeclaringType returns the type the method is declared on.
func (m *Method) DeclaringType() reflect.Type {
	return m.declaring
}

// NumParams returns the number of formal parameters.
func (m *Method) NumParams() int {
	return len(m.params)
}

// Param returns the type of the parameter at index i.
func (m *Method) Param(i int) reflect.Type {
	return m.params[i]
}

// ParamNames returns the configured parameter names, or nil.
func (m *Method) ParamNames() []string {
	return m.names
}

// Result returns the declared result type, or nil for handlers that
// produce no value.
func (m *Method) Result() reflect.Type {
	return m.result
}

// Signature renders the method for diagnostics, e.g.
// "func (*bot.Commands) Start(string, int64) (string, error)".
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteString("func (")
	b.WriteString(m.declaring.String())
	b.WriteString(") ")
	b.WriteString(m.name)
	b.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	switch {
	case m.result != nil && m.returnsErr:
		b.WriteString(" (" + m.result.String() + ", error)")
	case m.result != nil:
		b.WriteString(" " + m.result.String())
	case m.returnsErr:
		b.WriteString(" error")
	}
	return b.String()
}

// String returns the signature.
func (m *Method) String() string {
	return m.Signature()
}

// AssignableFrom reports whether a component of type t can receive calls to
// this method.
func (m *Method) AssignableFrom(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if m.declaring.Kind() == reflect.Interface {
		return t.Implements(m.declaring)
	}
	return t.AssignableTo(m.declaring)
}

// Call validates receiver and args against the signature and runs the
// method. Validation failures are reported as *MismatchError; errors from
// the handler body come back wrapped in *RaisedError.
func (m *Method) Call(receiver any, args []any) (any, error) {
	if !m.AssignableFrom(reflect.TypeOf(receiver)) {
		return nil, mismatchf(-1, "receiver of type %T is not an instance of %s", receiver, m.declaring)
	}
	if len(args) != len(m.params) {
		return nil, mismatchf(-1, "wrong number of arguments: got %d, want %d", len(args), len(m.params))
	}
	for i, arg := range args {
		want := m.params[i]
		if arg == nil {
			if !nillable(want) {
				return nil, &MismatchError{Index: i, Nil: true}
			}
			continue
		}
		if got := reflect.TypeOf(arg); !got.AssignableTo(want) {
			return nil, mismatchf(i, "argument %d: type %s is not assignable to %s", i, got, want)
		}
	}

	result, err := m.call(receiver, args)
	if err != nil {
		switch err.(type) {
		case *MismatchError, *RaisedError:
			return nil, err
		}
		return nil, &RaisedError{Err: err}
	}
	return result, nil
}

// reflectCall returns a CallFunc that calls the named method through
// reflect.Value.Call. Arguments have already been validated by Method.Call.
func reflectCall(name string, variadic, hasResult, returnsErr bool) CallFunc {
	return func(receiver any, args []any) (any, error) {
		mv := reflect.ValueOf(receiver).MethodByName(name)
		if !mv.IsValid() {
			return nil, mismatchf(-1, "receiver of type %T has no method %s", receiver, name)
		}

		mt := mv.Type()
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			if arg == nil {
				in[i] = reflect.Zero(mt.In(i))
			} else {
				in[i] = reflect.ValueOf(arg)
			}
		}

		var out []reflect.Value
		if variadic {
			out = mv.CallSlice(in)
		} else {
			out = mv.Call(in)
		}

		var result any
		if hasResult {
			result = valueOf(out[0])
		}
		if returnsErr {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return result, &RaisedError{Err: errVal.Interface().(error)}
			}
		}
		return result, nil
	}
}

// resultShape accepts (), (T), (error) and (T, error).
func resultShape(sig reflect.Type) (result reflect.Type, returnsErr bool, err error) {
	switch sig.NumOut() {
	case 0:
		return nil, false, nil
	case 1:
		if sig.Out(0) == errorType {
			return nil, true, nil
		}
		return sig.Out(0), false, nil
	case 2:
		if sig.Out(1) != errorType {
			return nil, false, fmt.Errorf("%w: second result must be error", ErrUnsupportedSignature)
		}
		return sig.Out(0), true, nil
	default:
		return nil, false, fmt.Errorf("%w: %d results", ErrUnsupportedSignature, sig.NumOut())
	}
}

// dropReceiver turns a method expression type func(R, A...) into func(A...).
func dropReceiver(t reflect.Type) reflect.Type {
	in := make([]reflect.Type, t.NumIn()-1)
	for i := range in {
		in[i] = t.In(i + 1)
	}
	out := make([]reflect.Type, t.NumOut())
	for i := range out {
		out[i] = t.Out(i)
	}
	return reflect.FuncOf(in, out, t.IsVariadic())
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// valueOf unwraps a reflect.Value, returning a nil interface for nil
// pointers, maps, slices and interfaces.
func valueOf(v reflect.Value) any {
	if nillable(v.Type()) && v.IsNil() {
		return nil
	}
	return v.Interface()
}
