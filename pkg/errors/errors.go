// Package errors provides application-level error types with classification.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies errors for handling and HTTP mapping.
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "VALIDATION"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeAIRequest         ErrorType = "AI_REQUEST"
	ErrorTypeMalformedResponse ErrorType = "MALFORMED_RESPONSE"
	ErrorTypeInvalidShape      ErrorType = "INVALID_SHAPE"
	ErrorTypeInternal          ErrorType = "INTERNAL"
)

// AppError is the application error type carrying a classification.
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

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidation creates a validation error.
func NewValidation(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewNotFound creates a not-found error.
func NewNotFound(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewConflict creates a conflict error, used when an operation is rejected
// because another one is already in flight.
func NewConflict(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewAIRequest creates an error for a failed model call.
func NewAIRequest(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeAIRequest, Message: message, Err: err}
}

// NewMalformedResponse creates an error for a model response that could not
// be parsed even after repair.
func NewMalformedResponse(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeMalformedResponse, Message: message, Err: err}
}

// NewInvalidShape creates an error for a parsed payload whose structure does
// not match what the operation expects.
func NewInvalidShape(message string) *AppError {
	return &AppError{Type: ErrorTypeInvalidShape, Message: message}
}

// NewInternal creates an internal error.
func NewInternal(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// Wrap adds context to an error. If err is an AppError its type is preserved;
// otherwise the result is classified internal.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
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
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

func IsValidation(err error) bool        { return isType(err, ErrorTypeValidation) }
func IsNotFound(err error) bool          { return isType(err, ErrorTypeNotFound) }
func IsConflict(err error) bool          { return isType(err, ErrorTypeConflict) }
func IsAIRequest(err error) bool         { return isType(err, ErrorTypeAIRequest) }
func IsMalformedResponse(err error) bool { return isType(err, ErrorTypeMalformedResponse) }
func IsInvalidShape(err error) bool      { return isType(err, ErrorTypeInvalidShape) }
func IsInternal(err error) bool          { return isType(err, ErrorTypeInternal) }
