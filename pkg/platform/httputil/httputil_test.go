package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "storeguard/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", dErrors.New(dErrors.CodeValidation, "email is required"), http.StatusBadRequest, "validation_error"},
		{"auth failed", dErrors.New(dErrors.CodeAuthFailed, "invalid credentials"), http.StatusUnauthorized, "auth_failed"},
		{"auth required", dErrors.New(dErrors.CodeAuthRequired, "not signed in"), http.StatusUnauthorized, "unauthorized"},
		{"locked", dErrors.New(dErrors.CodeAccountLocked, "locked"), http.StatusLocked, "account_locked"},
		{"network", dErrors.New(dErrors.CodeNetwork, "unreachable"), http.StatusBadGateway, "network_error"},
		{"upstream", dErrors.New(dErrors.CodeUpstream, "status 500"), http.StatusBadGateway, "upstream_error"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Empty(t, w.Header().Get("Retry-After"))
		})
	}
}

func TestWriteError_RateLimitedSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.NewRateLimited("too many login attempts", 1500*time.Millisecond))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "rate_limited", body["error"])
	assert.Equal(t, "too many login attempts", body["error_description"])
	assert.EqualValues(t, 2, body["retry_after_seconds"])
}
