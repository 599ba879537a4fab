// internal/errors/classified.go

// Package errors provides classified errors for the build pipeline. A
// ClassifiedError carries a category and a severity so callers at the edge
// (the CLI, the scheduler) can decide how to report a failure without
// string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
)

// ErrorCategory is the broad area an error came from.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryAuth       ErrorCategory = "auth"
	CategorySource     ErrorCategory = "source"
	CategoryNetwork    ErrorCategory = "network"
	CategoryTemplate   ErrorCategory = "template"
	CategoryRender     ErrorCategory = "render"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // stops the process
	SeverityError   ErrorSeverity = "error"   // fails the current build pass
	SeverityWarning ErrorSeverity = "warning" // output degraded, pass continues
)

// ErrorContext holds structured key/value context for an error.
type ErrorContext map[string]any

// ClassifiedError is an error with a category, a severity and context.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.category, e.severity, e.message, e.cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity { return e.severity }
func (e *ClassifiedError) Message() string         { return e.message }

// Context returns a copy of the error's context.
func (e *ClassifiedError) Context() ErrorContext {
	return maps.Clone(e.context)
}

// IsFatal reports whether the error should stop the process.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCategory reports whether err's chain holds a ClassifiedError of category.
func HasCategory(err error, category ErrorCategory) bool {
	ce, ok := AsClassified(err)
	return ok && ce.category == category
}

// GetCategory returns the category of err, or CategoryInternal.
func GetCategory(err error) ErrorCategory {
	if ce, ok := AsClassified(err); ok {
		return ce.category
	}
	return CategoryInternal
}
