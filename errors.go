package budget

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a Ledger operation wraps exactly
// one of them, test with errors.Is.
var (
	// ErrInvalid reports malformed or out of range user input.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound reports a reference to an unknown account, envelope or goal.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds reports an amount greater than what is available
	// in an account, an envelope or the unallocated pool.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrExists reports an attempt to create an account or goal whose key is taken.
	ErrExists = errors.New("already exists")
)

// FieldError is an operation failure tied to the input field that caused it.
type FieldError struct {
	Field string // Field names the offending input, e.g. "amount" or "account".
	Msg   string
	Err   error // Err is one of the error categories.
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Msg }
func (e *FieldError) Unwrap() error { return e.Err }

func fieldError(kind error, field, format string, args ...any) error {
	return &FieldError{Field: field, Msg: fmt.Sprintf(format, args...), Err: kind}
}

func invalid(field, format string, args ...any) error {
	return fieldError(ErrInvalid, field, format, args...)
}

func notFound(field, format string, args ...any) error {
	return fieldError(ErrNotFound, field, format, args...)
}

func insufficient(field, format string, args ...any) error {
	return fieldError(ErrInsufficientFunds, field, format, args...)
}

func exists(field, format string, args ...any) error {
	return fieldError(ErrExists, field, format, args...)
}

// Field returns the input field an error is tied to, or "" for general errors.
func Field(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
