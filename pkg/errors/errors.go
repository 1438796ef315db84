// Package errors defines the error taxonomy for the graph engine.
//
// Data-quality problems in source collections (unresolvable references,
// missing numeric fields) are never surfaced as errors; they degrade to
// defaults at the point of use. The only errors produced by the engine
// are invocation errors: malformed options, unknown identifiers, and
// internal failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType categorizes engine errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// AppError is the engine's error type.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to traverse the cause chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation reports a malformed options object or invalid argument.
func NewValidation(message string) error {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewValidationWrap reports a validation failure with an underlying cause,
// typically a validator.ValidationErrors value.
func NewValidationWrap(message string, err error) error {
	return &AppError{Type: ErrorTypeValidation, Message: message, Err: err}
}

// NewNotFound reports a missing entity or node.
func NewNotFound(message string) error {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewInternal reports an unexpected engine failure.
func NewInternal(message string, err error) error {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// Wrap adds context to an error, preserving an existing AppError type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Type == t
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsInternal reports whether err is an internal error.
func IsInternal(err error) bool { return isType(err, ErrorTypeInternal) }
