package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidField  ErrorCode = "INVALID_FIELD"
	ErrCodeNetwork       ErrorCode = "NETWORK_ERROR"
	ErrCodeServer        ErrorCode = "SERVER_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	// Fields names the offending record fields of a validation error.
	Fields []string
	// Status is the HTTP status received from a remote server, if any.
	Status int
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MissingFields reports required fields that were empty.
func MissingFields(fields ...string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: "missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// InvalidField reports a field that is present but unacceptable.
func InvalidField(field, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidField,
		Message: field + " " + reason,
		Fields:  []string{field},
	}
}

// Network reports a request that never received a response.
func Network(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: message,
		Err:     err,
	}
}

// Server reports a response that was received but rejected the request.
func Server(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeServer,
		Message: message,
		Status:  status,
	}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

func is(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// IsNotFound checks if error is NotFound
func IsNotFound(err error) bool {
	return is(err, ErrCodeNotFound)
}

// IsValidation checks if error is a validation failure, either missing or
// invalid fields
func IsValidation(err error) bool {
	return is(err, ErrCodeValidation) || is(err, ErrCodeInvalidField)
}

// IsMissingFields checks if error reports empty required fields
func IsMissingFields(err error) bool {
	return is(err, ErrCodeValidation)
}

// IsNetwork checks if error is a transport failure with no response
func IsNetwork(err error) bool {
	return is(err, ErrCodeNetwork)
}

// IsServer checks if error is a rejected response
func IsServer(err error) bool {
	return is(err, ErrCodeServer)
}
