// Package errors provides the error kinds reported by the forge engine and CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// DetailError captures structured error information for terminal display.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file or directory the error refers to (optional).
	Location string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// ComponentError reports a failure scoped to one generated component.
// Kind is one of the sentinel errors (ErrHandlerNotFound, ErrHandlerExecution,
// ErrTemplateRender, ErrManifestEdit).
type ComponentError struct {
	Component string
	Kind      error
	Cause     error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("component %q: %v", e.Component, e.Kind)
	}
	return fmt.Sprintf("component %q: %v: %v", e.Component, e.Kind, e.Cause)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *ComponentError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// FileError reports a failure to rewrite a single source file.
type FileError struct {
	File  string
	Cause error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrImportRewrite, e.File, e.Cause)
}

// Unwrap exposes ErrImportRewrite and the cause.
func (e *FileError) Unwrap() []error {
	return []error{ErrImportRewrite, e.Cause}
}

// NewConfigurationError creates a configuration error with details.
func NewConfigurationError(message, location, hint string) error {
	return &DetailError{
		Type:     "invalid configuration",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrConfiguration,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewComponentError creates a ComponentError of the given kind.
func NewComponentError(component string, kind, cause error) error {
	return &ComponentError{Component: component, Kind: kind, Cause: cause}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// Is reports whether any error in err's tree matches target.
// Re-exported so callers importing this package under its own name still
// reach the standard helpers.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
