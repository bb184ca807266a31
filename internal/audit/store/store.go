// Package store persists audit logs, security events and failed login attempts.
// Stores are pure I/O; lockout rules live in the lockout package.
package store

import (
	"context"
	"time"

	"storeguard/internal/audit/models"
)

// Store is the append-only persistence surface of the audit trail.
type Store interface {
	AppendAuditLog(ctx context.Context, entry *models.Entry) error
	AppendSecurityEvent(ctx context.Context, event *models.SecurityEvent) error
	AppendFailedLogin(ctx context.Context, attempt *models.FailedLogin) error
	CountFailedLogins(ctx context.Context, email string, since time.Time) (int, error)
}
