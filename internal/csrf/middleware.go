package csrf

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Validator checks a presented token.
type Validator interface {
	Validate(ctx context.Context, token string) (bool, error)
}

// RequireToken rejects mutating requests whose X-CSRF-Token header does not
// match the session's token. Safe methods pass through.
func RequireToken(v Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsMutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := v.Validate(r.Context(), r.Header.Get(HeaderName))
			if err != nil {
				logger.ErrorContext(r.Context(), "csrf validation failed", "error", err)
				writeForbidden(w, "csrf token could not be validated")
				return
			}
			if !ok {
				logger.WarnContext(r.Context(), "csrf token rejected",
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeForbidden(w, "missing or invalid csrf token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "invalid_csrf_token",
		"error_description": description,
	})
}
