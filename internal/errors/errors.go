// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrSecurityNotFound = errors.New("security not found")
	ErrNoBoardData      = errors.New("no trading data on main boards")
	ErrYieldUnavailable = errors.New("yield cannot be calculated for the bond")
	ErrInvalidInput     = errors.New("input validation failed")
	ErrDataNotFound     = errors.New("data not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrTimeout          = errors.New("operation timed out")
	ErrDatabaseError    = errors.New("database error")
)

// APIError represents an error from the exchange data API.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("iss error [%s]: %s: %v", e.Endpoint, e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("iss error [%s]: %s (status %d)", e.Endpoint, e.Message, e.Status)
	}
	return fmt.Sprintf("iss error [%s]: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(endpoint string, status int, message string, err error) *APIError {
	return &APIError{
		Endpoint: endpoint,
		Status:   status,
		Message:  message,
		Err:      err,
	}
}

// DataError represents a malformed or missing block in an API response.
type DataError struct {
	Block   string
	SecID   string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.Block, e.SecID, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.Block, e.SecID, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(block, secID, message string, err error) *DataError {
	return &DataError{
		Block:   block,
		SecID:   secID,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// YieldError reports why a yield computation was refused.
type YieldError struct {
	SecID  string
	Reason string
}

func (e *YieldError) Error() string {
	return fmt.Sprintf("yield error [%s]: %s", e.SecID, e.Reason)
}

func (e *YieldError) Unwrap() error {
	return ErrYieldUnavailable
}

// NewYieldError creates a new YieldError.
func NewYieldError(secID, reason string) *YieldError {
	return &YieldError{
		SecID:  secID,
		Reason: reason,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
