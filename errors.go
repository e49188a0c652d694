package assistant

import (
	"errors"
	"fmt"
)

// ErrEmptyMessage indicates a blank or whitespace-only message.
var ErrEmptyMessage = errors.New("message is empty")

// Error codes used at the HTTP boundary.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeStore      = "store_error"
	ErrCodeInternal   = "internal_error"
)

// Error is a coded error carrying an optional wrapped cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a coded error.
func NewError(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
