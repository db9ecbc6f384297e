// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and extracts
// validation errors into a format the client can understand
package validation

import "strings"

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required"`)
// - Implement Validate() error that runs validator.Struct(req)
// - Return validator.ValidationErrors (or CustomValidationErrors for custom cases)
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

// Error returns the lone message when there is exactly one issue, so callers
// outside HTTP (seeding) still get a readable reason.
func (c CustomValidationErrors) Error() string {
	switch len(c) {
	case 0:
		return "Validation failed"
	case 1:
		return c[0].Message
	}

	messages := make([]string, 0, len(c))
	for _, e := range c {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, " ")
}
