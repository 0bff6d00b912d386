// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration, signals and records
//   - Data errors (200-299): Data integrity violations, missing data, query failures
//   - Indicator errors (300-399): Indicator lookup and warm-up errors
//   - Signal errors (400-499): Classifier training and feature errors
//   - Trading errors (500-599): Insufficient funds, missing or duplicate positions
//   - Backtest errors (600-699): Engine setup and result writing errors
//   - Optimizer errors (700-799): Portfolio optimizer input errors
//   - Collaborator errors (800-899): Persistence and notification failures
//
// Only ErrCodeDataIntegrity aborts a backtest run. Every other code is absorbed by the
// engine and only shows up as a missing ledger entry or a log line.
//
// Warm-up is reported either as an *InsufficientDataError or as ErrCodeWarmupIncomplete;
// IsInsufficientDataError accepts both.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code of the outermost *Error in err's chain, or ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError represents an indicator or classifier that has not yet seen
// enough history to produce a value (the warm-up period).
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError or carries
// the ErrCodeWarmupIncomplete code.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError
	if errors.As(err, &insufficientErr) {
		return true
	}

	return HasCode(err, ErrCodeWarmupIncomplete)
}

// IsDataIntegrityError reports whether err, or any coded error it wraps, carries
// ErrCodeDataIntegrity. Such errors abort a backtest run.
func IsDataIntegrityError(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		if e.Code == ErrCodeDataIntegrity {
			return true
		}

		err = e.Cause
	}

	return false
}
