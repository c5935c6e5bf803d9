// Package errors provides structured error handling for the compose engine.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates a construction-time programming mistake.
	KindConfiguration
	// KindBinding indicates a binding path that could not be resolved at write time.
	KindBinding
	// KindValidation indicates a failed record validator.
	KindValidation
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindBinding:
		return "binding"
	case KindValidation:
		return "validation"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel causes wrapped by ConfigurationError.
var (
	ErrDeferredUnset     = errors.New("deferred field was not assigned in Setup")
	ErrNoDefaultProperty = errors.New("no default bind property registered")
	ErrMalformedGrid     = errors.New("grid position must be 2 or 4 integers")
	ErrUnknownKeyword    = errors.New("keyword is neither an event nor a settable property")
	ErrAbsentSegment     = errors.New("path segment is absent")
)

// ComposeError represents a structured error in the compose engine.
type ComposeError struct {
	// Op is the operation that failed (e.g., "binding.Apply").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Field is the declared field involved, if any.
	Field string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ComposeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s [%s] field=%s: %v", e.Op, e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ComposeError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a mistake in a class definition detected while
// constructing an instance. Construction is aborted when one is returned.
type ConfigurationError struct {
	// Class is the name of the class being constructed.
	Class string
	// Field is the offending field, if any.
	Field string
	// Err is the underlying cause.
	Err error
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration error")
	if e.Class != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Class)
	}
	if e.Field != "" {
		sb.WriteString(".")
		sb.WriteString(e.Field)
	}
	sb.WriteString(": ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString("unknown")
	}
	return sb.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Configf builds a ConfigurationError for field with a formatted cause.
func Configf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}

// BindingResolutionError reports a non-optional path segment that was absent
// when a display edit tried to write back into the store.
type BindingResolutionError struct {
	// Path is the full bind path.
	Path string
	// Segment is the name of the first absent segment.
	Segment string
}

func (e *BindingResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: segment %q is absent", e.Path, e.Segment)
}

func (e *BindingResolutionError) Unwrap() error {
	return ErrAbsentSegment
}

// ValidationFailure describes a validator rejecting a record value. It is
// surfaced as data on the store and never returned from a write.
type ValidationFailure struct {
	// Field is the record field that failed.
	Field string
	// Value is the rejected value.
	Value any
	// Err is the validator's reason.
	Err error
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Field, e.Err)
}

func (e *ValidationFailure) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "compose.Setup").
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

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ErrorHandler receives errors reported by the compose engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs outside a call that can return it.
	HandleError(err *ComposeError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is, As and New re-export the standard helpers so callers importing this
// package under its usual name do not need a second import.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)
