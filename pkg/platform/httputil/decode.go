package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/validation"
)

// Validatable is implemented by request types with their own Validate step.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that canonicalize their fields.
type Normalizable interface {
	Normalize()
}

// Sanitizable is implemented by request types that strip unsafe input.
type Sanitizable interface {
	Sanitize()
}

// DecodeJSON decodes a single JSON object from the request body.
// On failure it writes a 400 and returns nil, false.
//
//	req, ok := httputil.DecodeJSON[models.LoginRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&req)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON object")
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return nil, false
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return &req, true
}

// PrepareRequest runs Sanitize, Normalize and Validate in that order. Types
// without a Validate method are checked against their validate struct tags.
func PrepareRequest(req any) error {
	if s, ok := req.(Sanitizable); ok {
		s.Sanitize()
	}
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return validation.Validate(req)
}

// DecodeAndPrepare decodes the body and prepares it with PrepareRequest.
// Domain errors from Validate keep their code; anything else becomes a
// validation error.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}

	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		var domainErr *dErrors.Error
		if !errors.As(err, &domainErr) {
			err = dErrors.New(dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}

	return req, true
}
