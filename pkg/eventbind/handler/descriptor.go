package handler

import (
	"fmt"
	"reflect"
	"strings"
)

// maxProxyDepth bounds Proxy unwrapping so a self-referencing wrapper cannot
// loop forever.
const maxProxyDepth = 16

// Proxy is implemented by wrappers (interceptors, decorators) that stand in
// for a user component. The descriptor peels proxies to report the type the
// user actually wrote.
type Proxy interface {
	ProxiedComponent() any
}

// ReturnValue describes a value produced by a handler.
type ReturnValue struct {
	// Type is the runtime type of the value, or Declared when the value
	// is nil.
	Type reflect.Type
	// Declared is the method's declared result type. Nil for handlers that
	// produce no value.
	Declared reflect.Type
	// Method is the method that produced the value.
	Method *Method
}

// Descriptor binds a component instance to one of its handler methods. It is
// built once at registration and shared across events.
type Descriptor struct {
	component     any
	componentType reflect.Type
	method        *Method
	params        []Parameter
}

// NewDescriptor builds a descriptor for method m on component.
func NewDescriptor(component any, m *Method) (*Descriptor, error) {
	if component == nil {
		return nil, ErrNilComponent
	}
	if m == nil {
		return nil, ErrNilMethod
	}

	d := &Descriptor{
		component:     component,
		componentType: userType(component),
		method:        m,
	}

	target := d.target()
	d.params = make([]Parameter, target.NumParams())
	for i := range d.params {
		d.params[i] = Parameter{
			index:         i,
			typ:           target.Param(i),
			annotations:   target.annotations[i],
			method:        target,
			componentType: d.componentType,
		}
	}
	return d, nil
}

// userType returns the type of the innermost component behind any chain of
// Proxy wrappers.
func userType(component any) reflect.Type {
	for i := 0; i < maxProxyDepth; i++ {
		p, ok := component.(Proxy)
		if !ok {
			break
		}
		inner := p.ProxiedComponent()
		if inner == nil {
			break
		}
		component = inner
	}
	return reflect.TypeOf(component)
}

// Component returns the registered component instance.
func (d *Descriptor) Component() any {
	return d.component
}

// ComponentType returns the user-facing component type, with proxies peeled.
func (d *Descriptor) ComponentType() reflect.Type {
	return d.componentType
}

// Method returns the declared handler method.
func (d *Descriptor) Method() *Method {
	return d.method
}

// target returns the method actually invoked. Go has no synthetic bridge
// methods, so this is always the declared method.
func (d *Descriptor) target() *Method {
	return d.method
}

// Parameters returns a copy of the parameter descriptors in declaration
// order.
func (d *Descriptor) Parameters() []Parameter {
	out := make([]Parameter, len(d.params))
	copy(out, d.params)
	return out
}

// ReturnValue describes actual using its runtime type, falling back to the
// declared result type when actual is nil.
func (d *Descriptor) ReturnValue(actual any) ReturnValue {
	rv := ReturnValue{
		Declared: d.target().Result(),
		Method:   d.target(),
	}
	if actual != nil {
		rv.Type = reflect.TypeOf(actual)
	} else {
		rv.Type = rv.Declared
	}
	return rv
}

// String returns the component type and method name.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s.%s", d.componentType, d.method.Name())
}

// FormatInvokeError builds the diagnostic report for a failed invocation
// with the given argument values.
func (d *Descriptor) FormatInvokeError(text string, args []any) string {
	entries := make([]string, len(args))
	for i, arg := range args {
		if arg == nil {
			entries[i] = fmt.Sprintf("[%d] [null]", i)
		} else {
			entries[i] = fmt.Sprintf("[%d] [type=%T] [value=%v]", i, arg, arg)
		}
	}
	return fmt.Sprintf("%s\nComponent [%s]\nMethod [%s] with argument values:\n %s ",
		text, d.componentType, d.target().Signature(), strings.Join(entries, ",\n"))
}

// assertTarget returns a *BindingError when the component cannot receive
// calls to the declared method, and nil otherwise.
func (d *Descriptor) assertTarget(args []any, cause error) error {
	declaring := d.method.DeclaringType()
	actual := reflect.TypeOf(d.component)
	if d.method.AssignableFrom(actual) {
		return nil
	}
	text := fmt.Sprintf("The mapped handler method type '%s' is not an instance of the actual component type '%s'. "+
		"If the component is wrapped by a proxy, register it through an interface it implements.",
		declaring, actual)
	return &BindingError{
		DeclaringType: declaring,
		ComponentType: actual,
		Report:        d.FormatInvokeError(text, args),
		Err:           cause,
	}
}
