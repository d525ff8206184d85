package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// Failure taxonomy for the classification pipeline. Transport and timeout
// failures advance the retry ladder; a malformed response is absorbed into
// a degraded result and never propagated; unreadable input is the single
// terminal condition surfaced to callers.
var (
	ErrTransport         = errors.New("external call failed")
	ErrTimeout           = errors.New("external call timed out")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrNoExtractableText = errors.New("no extractable text in document")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
