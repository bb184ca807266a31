// Package result carries the outcome of session operations as a tagged value so
// callers dispatch on Kind instead of mixing nil checks with error inspection.
package result

import (
	dErrors "storeguard/pkg/domain-errors"
)

// Kind classifies an outcome for the boundary layer.
type Kind string

const (
	KindOK            Kind = "ok"
	KindValidation    Kind = "validation_error"
	KindAuthFailed    Kind = "auth_failed"
	KindRateLimited   Kind = "rate_limited"
	KindAccountLocked Kind = "account_locked"
	KindNetwork       Kind = "network_error"
	KindUnknown       Kind = "unknown"
)

// Result holds either a value or the error that prevented producing it.
type Result[T any] struct {
	Value T
	Err   error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error. A nil error is treated as an unknown failure.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = dErrors.New(dErrors.CodeInternal, "unknown failure")
	}
	return Result[T]{Err: err}
}

// IsOK reports whether the result carries a value.
func (r Result[T]) IsOK() bool {
	return r.Err == nil
}

// Unwrap returns the value and error as a conventional pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// Kind maps the carried error onto the outcome taxonomy.
func (r Result[T]) Kind() Kind {
	if r.Err == nil {
		return KindOK
	}
	return KindOf(r.Err)
}

// KindOf classifies an arbitrary error.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return KindValidation
	case dErrors.CodeAuthFailed, dErrors.CodeAuthRequired, dErrors.CodeUnauthorized:
		return KindAuthFailed
	case dErrors.CodeRateLimited:
		return KindRateLimited
	case dErrors.CodeAccountLocked:
		return KindAccountLocked
	case dErrors.CodeNetwork, dErrors.CodeTimeout:
		return KindNetwork
	default:
		return KindUnknown
	}
}
