package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error codes for the scorecard pipeline. Structural errors are fatal:
// the run aborts before any aggregate is produced, because partial
// aggregates computed from partially-invalid data are worse than no
// output.
const (
	CodeParse           = "PARSE_ERROR"
	CodeConfiguration   = "CONFIGURATION_ERROR"
	CodeMissingBaseline = "MISSING_BASELINE_ERROR"
)

// Error is a structured pipeline error with a stable code and optional
// details payload.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a structured error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a structured error wrapping an underlying cause.
func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// ParseDetails describes the exact input location that failed to parse.
type ParseDetails struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// NewParseError reports a malformed date, number, or flag in an input
// row. Row numbers are 1-based and count data rows, not the header.
func NewParseError(row int, field, value string, cause error) *Error {
	return &Error{
		Code:    CodeParse,
		Message: fmt.Sprintf("row %d: malformed %s value %q", row, field, value),
		Details: ParseDetails{Row: row, Field: field, Value: value},
		cause:   cause,
	}
}

// NewConfigurationError reports invalid window boundary configuration.
func NewConfigurationError(message string) *Error {
	return &Error{Code: CodeConfiguration, Message: message}
}

// NewMissingBaselineError reports an account balance series with no
// leading real observation to carry forward.
func NewMissingBaselineError(accountID string, date time.Time) *Error {
	return &Error{
		Code:    CodeMissingBaseline,
		Message: fmt.Sprintf("account %q has no baseline balance observation", accountID),
		Details: map[string]interface{}{"account_id": accountID, "date": date},
	}
}

// IsParse reports whether err is a ParseError.
func IsParse(err error) bool { return hasCode(err, CodeParse) }

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool { return hasCode(err, CodeConfiguration) }

// IsMissingBaseline reports whether err is a MissingBaselineError.
func IsMissingBaseline(err error) bool { return hasCode(err, CodeMissingBaseline) }

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
