package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnknownCategory indicates a transaction category that is not in the taxonomy.
var ErrUnknownCategory = errors.New("unknown category")

// ErrMalformedTransaction indicates a stored transaction that cannot be aggregated (e.g. missing date).
var ErrMalformedTransaction = errors.New("malformed transaction")

// ErrStockInconsistency is reported as a warning when a stock delta drives a product below zero.
var ErrStockInconsistency = errors.New("stock inconsistency")

// ErrReversalMismatch indicates that a delete could not find what it needs to invert.
var ErrReversalMismatch = errors.New("reversal mismatch")

// ErrUnsupported indicates an operation that is deliberately not supported for the given input.
var ErrUnsupported = errors.New("operation not supported")

// ErrLocked indicates that a concurrent writer holds the lock for the requested resource.
var ErrLocked = errors.New("resource is locked")

// AppError carries an HTTP-ish status code along with a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound with errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError returns an AppError that matches ErrValidation with errors.Is.
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Code: 400, Message: fmt.Sprintf(format, args...), Err: ErrValidation}
}
