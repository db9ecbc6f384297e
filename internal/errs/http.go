package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "difficulty", "error": "must be at least 1" }
type FieldError struct {
	// Field is the JSON name of the offending field (e.g. "difficulty").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error() and is serialized
// directly to JSON. Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST", "PIECE_INVALID").
//   - Message: human-friendly outcome, rendered as "detail".
//   - Status: HTTP status code.
//   - Override: tells the client the detail is safe to show verbatim.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"detail"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It only compares the type, not Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
