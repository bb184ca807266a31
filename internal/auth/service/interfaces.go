package service

import (
	"context"

	auditmodels "storeguard/internal/audit/models"
	"storeguard/internal/auth/client"
	rlmodels "storeguard/internal/ratelimit/models"
)

// Endpoint is the storefront auth endpoint.
type Endpoint interface {
	Login(ctx context.Context, email, password string) (*client.Response, error)
	Refresh(ctx context.Context, refreshToken string) (*client.Response, error)
	Logout(ctx context.Context, refreshToken string) error
}

// RateLimiter applies a named rate limit policy.
type RateLimiter interface {
	Check(ctx context.Context, action rlmodels.Action, identifier string) (*rlmodels.Result, error)
}

// AuditLogger records session lifecycle events. Implementations never fail.
type AuditLogger interface {
	LogAdminAction(ctx context.Context, entry auditmodels.Entry)
	LogSecurityEvent(ctx context.Context, eventType auditmodels.EventType, severity auditmodels.Severity, description string, metadata map[string]any)
	LogFailedLogin(ctx context.Context, email string)
	IsAccountLocked(ctx context.Context, email string) auditmodels.LockoutStatus
}
