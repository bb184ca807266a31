package httputil

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	dErrors "storeguard/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and error responses.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorWithStatus(w, DomainCodeToHTTPStatus(dErrors.CodeOf(err)), err)
}

// WriteErrorWithStatus writes the error envelope for err with an explicit status.
// Rate-limited errors also set the Retry-After header, rounded up to whole seconds.
func WriteErrorWithStatus(w http.ResponseWriter, status int, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]any{
			"error": DomainCodeToHTTPCode(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		if domainErr.Code == dErrors.CodeRateLimited {
			seconds := int64(math.Ceil(domainErr.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
			response["retry_after_seconds"] = seconds
		}
		WriteJSON(w, status, response)
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": DomainCodeToHTTPCode(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized, dErrors.CodeAuthFailed, dErrors.CodeAuthRequired:
		return http.StatusUnauthorized
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeAccountLocked:
		return http.StatusLocked
	case dErrors.CodeNetwork, dErrors.CodeUpstream:
		return http.StatusBadGateway
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to HTTP error codes (for JSON response).
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeUnauthorized, dErrors.CodeAuthRequired:
		return "unauthorized"
	case dErrors.CodeAuthFailed:
		return "auth_failed"
	case dErrors.CodeRateLimited:
		return "rate_limited"
	case dErrors.CodeAccountLocked:
		return "account_locked"
	case dErrors.CodeNetwork:
		return "network_error"
	case dErrors.CodeUpstream:
		return "upstream_error"
	case dErrors.CodeTimeout:
		return "upstream_timeout"
	case dErrors.CodeInternal:
		return "internal_error"
	default:
		return "internal_error"
	}
}
