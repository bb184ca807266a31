package csrf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubValidator struct {
	valid bool
	err   error
	calls int
}

func (v *stubValidator) Validate(_ context.Context, _ string) (bool, error) {
	v.calls++
	return v.valid, v.err
}

func TestRequireToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name      string
		method    string
		validator *stubValidator
		want      int
		wantCalls int
	}{
		{"safe method skips validation", http.MethodGet, &stubValidator{}, http.StatusOK, 0},
		{"valid token passes", http.MethodPost, &stubValidator{valid: true}, http.StatusOK, 1},
		{"invalid token rejected", http.MethodDelete, &stubValidator{}, http.StatusForbidden, 1},
		{"validator error rejected", http.MethodPut, &stubValidator{err: errors.New("redis down")}, http.StatusForbidden, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireToken(tt.validator, logger)(ok)
			req := httptest.NewRequest(tt.method, "/operations", nil)
			req.Header.Set(HeaderName, "token")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.validator.calls)
		})
	}
}
