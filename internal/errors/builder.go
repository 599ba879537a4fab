// internal/errors/builder.go
package errors

import "maps"

// ErrorBuilder assembles a ClassifiedError fluently.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of the given category with severity error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  ErrorContext{},
	}}
}

// WrapError starts an error that wraps cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context[key] = value
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.err.severity = SeverityFatal
	return b
}

func (b *ErrorBuilder) Warning() *ErrorBuilder {
	b.err.severity = SeverityWarning
	return b
}

// Build returns the finished error.
func (b *ErrorBuilder) Build() *ClassifiedError {
	out := b.err
	out.context = maps.Clone(b.err.context)
	return &out
}

// ConfigError creates a fatal configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// AuthError creates a fatal authentication error.
func AuthError(message string) *ErrorBuilder {
	return NewError(CategoryAuth, message).Fatal()
}

// TemplateError creates a template lookup or execution error.
func TemplateError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategoryTemplate, message)
}

// SourceError creates an error for the document source.
func SourceError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategorySource, message)
}

// NetworkError creates an error for a failed remote fetch.
func NetworkError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategoryNetwork, message)
}

// FileSystemError creates an error for a failed local file operation.
func FileSystemError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategoryFileSystem, message)
}

// RenderError creates an error for content that could not be converted to
// HTML.
func RenderError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategoryRender, message)
}
