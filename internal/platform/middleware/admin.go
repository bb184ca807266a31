package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// ConsoleTokenHeader carries the shared secret guarding the local console API.
const ConsoleTokenHeader = "X-Console-Token"

// RequireConsoleToken rejects requests whose X-Console-Token does not match
// expectedToken. An empty expectedToken disables the check.
func RequireConsoleToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(ConsoleTokenHeader)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "console token mismatch",
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"console token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
