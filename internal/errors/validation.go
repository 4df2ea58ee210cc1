package errors

import "fmt"

// ValidationError represents an invalid configuration value
type ValidationError struct {
	*BaseError
	Field    string
	Expected string
	Actual   string
}

// NewValidationError creates a new validation error
func NewValidationError(field, expected, actual string) *ValidationError {
	message := fmt.Sprintf("validation failed for field '%s': expected %s, got %s", field, expected, actual)

	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		Field:     field,
		Expected:  expected,
		Actual:    actual,
	}
}

// WithSuggestion adds a helpful suggestion
func (e *ValidationError) WithSuggestion(suggestion string) *ValidationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// FixConflictError reports a fix that could not be applied to a file
type FixConflictError struct {
	*BaseError
	Title  string
	Reason string
}

// NewFixConflictError creates an error for a skipped fix
func NewFixConflictError(file, title, reason string) *FixConflictError {
	return &FixConflictError{
		BaseError: New(FixConflictErrorCode, fmt.Sprintf("fix %q not applied: %s", title, reason)).
			WithLocation(SourceLocation{File: file}).
			WithSuggestion("Re-run 'axonlint check' and apply the remaining fixes by hand"),
		Title:  title,
		Reason: reason,
	}
}
