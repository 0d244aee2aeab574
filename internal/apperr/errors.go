// Package apperr defines the structured error model shared by every
// externally invocable operation: a stable code, a human-readable
// message, and an optional details mapping for diagnosis.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error code.
type Code string

// Error codes.
const (
	CodeBadRequest Code = "BAD_REQUEST"
	CodeNotFound   Code = "NOT_FOUND"
	CodeIO         Code = "IO_ERROR"
	CodeTimeout    Code = "TIMEOUT"
)

// Error is the application error type. Details carry structural context
// (offending path, available keys) without dumping payload contents.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error and returns the receiver.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// New creates an error with the given code, message, and optional details.
func New(code Code, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

// BadRequest creates a BAD_REQUEST error.
func BadRequest(message string, details map[string]any) *Error {
	return New(CodeBadRequest, message, details)
}

// NotFound creates a NOT_FOUND error.
func NotFound(message string, details map[string]any) *Error {
	return New(CodeNotFound, message, details)
}

// IO creates an IO_ERROR error.
func IO(message string, details map[string]any) *Error {
	return New(CodeIO, message, details)
}

// Timeout creates a TIMEOUT error.
func Timeout(message string, details map[string]any) *Error {
	return New(CodeTimeout, message, details)
}

// From converts any error into an *Error. Unknown errors are wrapped as
// IO_ERROR so the boundary never surfaces an unstructured fault.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Code: CodeIO, Message: err.Error(), cause: err}
}

// CodeOf returns the code of err, or CodeIO for unknown errors.
func CodeOf(err error) Code {
	return From(err).Code
}
