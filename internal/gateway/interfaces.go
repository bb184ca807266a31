package gateway

import (
	"context"
	"net/http"

	auditmodels "storeguard/internal/audit/models"
	authmodels "storeguard/internal/auth/models"
	rlmodels "storeguard/internal/ratelimit/models"
)

// Session issues authenticated requests on behalf of the signed-in admin.
type Session interface {
	CurrentAdmin(ctx context.Context) (*authmodels.AdminIdentity, bool)
	Do(req *http.Request) (*http.Response, error)
}

// CSRF attaches the anti-forgery header to mutating requests.
type CSRF interface {
	AddHeader(ctx context.Context, method string, h http.Header) error
}

// RateLimiter applies a named rate limit policy.
type RateLimiter interface {
	Check(ctx context.Context, action rlmodels.Action, identifier string) (*rlmodels.Result, error)
}

// AuditLogger records operation outcomes. Implementations never fail.
type AuditLogger interface {
	LogAdminAction(ctx context.Context, entry auditmodels.Entry)
	LogSecurityEvent(ctx context.Context, eventType auditmodels.EventType, severity auditmodels.Severity, description string, metadata map[string]any)
}
