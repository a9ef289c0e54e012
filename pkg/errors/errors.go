// Package errors provides structured error handling for the gadget runtime.
//
// Engine code (element trees, signals, views) never aborts the host on a
// recoverable problem. Instead it reports a [GadgetError] or [PanicError] to
// the installed [ErrorHandler] and degrades to an inert result.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindFactory indicates an element could not be constructed.
	KindFactory
	// KindSignal indicates a signal/slot failure.
	KindSignal
	// KindScript indicates a failure in the scriptable bridge.
	KindScript
	// KindHost indicates a view host or native binder error.
	KindHost
	// KindConfig indicates a manifest or layout problem.
	KindConfig
	// KindStorage indicates an options persistence error.
	KindStorage
	// KindRender indicates a drawing error.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindFactory:
		return "factory"
	case KindSignal:
		return "signal"
	case KindScript:
		return "script"
	case KindHost:
		return "host"
	case KindConfig:
		return "config"
	case KindStorage:
		return "storage"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// GadgetError represents a structured error in the gadget runtime.
type GadgetError struct {
	// Op is the operation that failed (e.g., "element.Factory.Create").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Element is the name or tag of the element involved, if any.
	Element string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *GadgetError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s [%s] element=%s: %v", e.Op, e.Kind, e.Element, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *GadgetError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "view.timer").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// UnknownTagError is reported when an element factory has no creator for a tag.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown element tag %q", e.Tag)
}

// PropertyError is reported when a declarative property cannot be applied.
type PropertyError struct {
	// Property is the property name.
	Property string
	// Reason describes why the property was rejected.
	Reason string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("property %q: %s", e.Property, e.Reason)
}

// ErrorHandler receives errors reported by the gadget runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *GadgetError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
