package handler

import "reflect"

// Parameter describes one formal parameter of a handler method. Values are
// immutable; the name is filled in by the invocable's name discoverer.
type Parameter struct {
	index         int
	typ           reflect.Type
	name          string
	annotations   []any
	method        *Method
	componentType reflect.Type
}

// Index returns the parameter position, starting at zero.
func (p Parameter) Index() int { return p.index }

// Type returns the declared parameter type.
func (p Parameter) Type() reflect.Type { return p.typ }

// Name returns the discovered parameter name, or "" before discovery.
func (p Parameter) Name() string { return p.name }

// Annotations returns the metadata values attached to the parameter at
// registration. The returned slice must not be modified.
func (p Parameter) Annotations() []any { return p.annotations }

// Method returns the method declaring the parameter.
func (p Parameter) Method() *Method { return p.method }

// ComponentType returns the user-facing type of the component that owns
// the method.
func (p Parameter) ComponentType() reflect.Type { return p.componentType }

func (p Parameter) withName(name string) Parameter {
	p.name = name
	return p
}

// AnnotationOf returns the first annotation of type T attached to p.
//
// Example:
//
//	if cmd, ok := handler.AnnotationOf[resolver.Command](p); ok {
//	    ...
//	}
func AnnotationOf[T any](p Parameter) (T, bool) {
	for _, a := range p.annotations {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// HasAnnotation reports whether an annotation of type T is attached to p.
func HasAnnotation[T any](p Parameter) bool {
	_, ok := AnnotationOf[T](p)
	return ok
}
