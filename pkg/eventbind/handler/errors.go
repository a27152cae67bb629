package handler

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for descriptor and method construction.
var (
	// ErrNilComponent indicates a descriptor was built without a component.
	ErrNilComponent = errors.New("component is required")

	// ErrNilMethod indicates a descriptor was built without a method.
	ErrNilMethod = errors.New("method is required")

	// ErrNilDescriptor indicates an invocable was built without a descriptor.
	ErrNilDescriptor = errors.New("handler descriptor is required")

	// ErrNilCall indicates a method was built without a call function.
	ErrNilCall = errors.New("call function is required")

	// ErrMethodNotFound indicates MethodOf could not find the named method.
	ErrMethodNotFound = errors.New("method not found")

	// ErrUnsupportedSignature indicates a method's results cannot be mapped
	// to a single value and an error.
	ErrUnsupportedSignature = errors.New("unsupported handler signature")
)

// MismatchError reports that the argument vector or the receiver did not fit
// the method at the call boundary.
type MismatchError struct {
	// Index is the offending argument position, or -1 for arity and
	// receiver problems.
	Index int
	// Message describes the mismatch.
	Message string
	// Nil is true when a nil argument was passed for a parameter that
	// cannot hold nil.
	Nil bool
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	if e.Message == "" {
		return "argument mismatch"
	}
	return e.Message
}

// RaisedError carries an error returned by a handler body through the call
// boundary. The invoker unwraps it before returning to the caller.
type RaisedError struct {
	Err error
}

// Error implements the error interface.
func (e *RaisedError) Error() string {
	if e.Err == nil {
		return "handler raised a nil error"
	}
	return e.Err.Error()
}

// Unwrap returns the handler's error.
func (e *RaisedError) Unwrap() error {
	return e.Err
}

// BindingError reports that the component is not assignable to the type that
// declares the handler method. It usually means the component was wrapped by
// a proxy that does not implement the declared type.
type BindingError struct {
	// DeclaringType is the type the method was declared on.
	DeclaringType reflect.Type
	// ComponentType is the runtime type of the registered component.
	ComponentType reflect.Type
	// Report is the full diagnostic text.
	Report string
	// Err is the low-level mismatch that triggered the check.
	Err error
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return e.Report
}

// Unwrap returns the underlying mismatch.
func (e *BindingError) Unwrap() error {
	return e.Err
}

// ArgumentError reports an argument vector that does not fit the handler.
type ArgumentError struct {
	// Report is the full diagnostic text.
	Report string
	// Err is the low-level mismatch.
	Err error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return e.Report
}

// Unwrap returns the underlying mismatch.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// InvocationError is returned for call failures that are neither argument
// mismatches nor errors raised by the handler body.
type InvocationError struct {
	// Report is the full diagnostic text.
	Report string
	// Err is the underlying failure, if any.
	Err error
}

// Error implements the error interface.
func (e *InvocationError) Error() string {
	return e.Report
}

// Unwrap returns the underlying failure.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Reporter is implemented by errors that carry a diagnostic report.
type Reporter interface {
	DiagnosticReport() string
}

// DiagnosticReport implements Reporter.
func (e *BindingError) DiagnosticReport() string { return e.Report }

// DiagnosticReport implements Reporter.
func (e *ArgumentError) DiagnosticReport() string { return e.Report }

// DiagnosticReport implements Reporter.
func (e *InvocationError) DiagnosticReport() string { return e.Report }

// ReportOf returns the diagnostic report carried by err or any error it
// wraps, or "" if there is none.
func ReportOf(err error) string {
	var r Reporter
	if errors.As(err, &r) {
		return r.DiagnosticReport()
	}
	return ""
}

func mismatchf(index int, format string, args ...any) *MismatchError {
	return &MismatchError{Index: index, Message: fmt.Sprintf(format, args...)}
}
