package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Error codes mirroring the domain package, kept local to avoid a circular
// import. The handler layer maps these to HTTP status codes.
const (
	codeInvalid  = "invalid"
	codeInternal = "internal"
)

// InvalidInputError reports a violated precondition on a calculation input.
// It identifies the offending field so callers can surface a field-level
// message instead of a generic one.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *InvalidInputError) ErrorCode() string { return codeInvalid }

// ErrorMessage returns the user-facing message.
func (e *InvalidInputError) ErrorMessage() string { return e.Error() }

func invalidInput(field, format string, args ...interface{}) error {
	return &InvalidInputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidRateError reports a resolved rate outside [0, 1). This is a
// configuration problem in the rate table, not a user input error: an ICMS
// rate of 1 or more would make the gross-up divide by zero or go negative.
type InvalidRateError struct {
	Kind Kind
	Rate decimal.Decimal
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("%s rate %s is outside [0, 1)", e.Kind, e.Rate)
}

// ErrorCode returns the error code for HTTP status mapping. Rate table
// misconfiguration is reported as internal, not as caller error.
func (e *InvalidRateError) ErrorCode() string { return codeInternal }

// ErrorMessage returns the user-facing message.
func (e *InvalidRateError) ErrorMessage() string {
	return fmt.Sprintf("Tax rates for this classification are misconfigured (%s)", e.Kind)
}
