// Package errors provides a lightweight structured error type (HelpBuildError)
// for category-based classification in the CLI and the preview server.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a help build error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryManifest ErrorCategory = "manifest"
	CategoryPage     ErrorCategory = "page"
	CategoryValidate ErrorCategory = "validate"

	// Build and processing errors
	CategoryRender     ErrorCategory = "render"
	CategoryCache      ErrorCategory = "cache"
	CategoryExport     ErrorCategory = "export"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryGit      ErrorCategory = "git"
	CategoryServe    ErrorCategory = "serve"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// HelpBuildError is a structured error with category, retryability, and context
type HelpBuildError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for HelpBuildError
type ContextFields map[string]any

// Error implements the error interface
func (e *HelpBuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *HelpBuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *HelpBuildError) WithContext(key string, value any) *HelpBuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new HelpBuildError
func New(category ErrorCategory, severity ErrorSeverity, message string) *HelpBuildError {
	return &HelpBuildError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new HelpBuildError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *HelpBuildError {
	return &HelpBuildError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// WrapRetryable creates a new retryable HelpBuildError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *HelpBuildError {
	return &HelpBuildError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if hbe, ok := err.(*HelpBuildError); ok {
		return hbe.Retryable
	}
	return false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if hbe, ok := err.(*HelpBuildError); ok {
		return hbe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a HelpBuildError
func GetCategory(err error) ErrorCategory {
	if hbe, ok := err.(*HelpBuildError); ok {
		return hbe.Category
	}
	return CategoryInternal
}

// ManifestError creates a new fatal manifest error
func ManifestError(message string) *HelpBuildError {
	return &HelpBuildError{
		Category: CategoryManifest,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// WrapError wraps an existing error with a new HelpBuildError at error severity
func WrapError(err error, category ErrorCategory, message string) *HelpBuildError {
	return &HelpBuildError{
		Category: category,
		Severity: SeverityError,
		Message:  message,
		Cause:    err,
	}
}
