package domainerrors

import (
	"errors"
	"time"
)

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeInternal           Code = "internal_error"
	CodeUnauthorized       Code = "unauthorized"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"

	// Session and security outcomes
	CodeAuthFailed    Code = "auth_failed"    // Credentials or refresh token rejected by the auth endpoint
	CodeAuthRequired  Code = "auth_required"  // No usable session for an authenticated call
	CodeRateLimited   Code = "rate_limited"   // Fixed-window budget exhausted for the action
	CodeAccountLocked Code = "account_locked" // Lockout service reports the account as locked
	CodeNetwork       Code = "network_error"  // Transport failure talking to an external service
	CodeUpstream      Code = "upstream_error" // External service answered with a non-2xx status
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
	// RetryAfter is set for rate-limited errors.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// NewRateLimited creates a rate-limited error carrying the time until the window resets.
func NewRateLimited(msg string, retryAfter time.Duration) error {
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &Error{Code: CodeRateLimited, Message: msg, RetryAfter: retryAfter}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		// Preserve the original domain code, update message
		return &Error{Code: existing.Code, Message: msg, Err: err, RetryAfter: existing.RetryAfter}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the domain code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// RetryAfter returns the retry hint carried by a rate-limited error.
func RetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}
