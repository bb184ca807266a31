// Package models defines the records written to the audit trail.
package models

import "time"

// Status is the outcome recorded on an audit log entry.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Severity ranks security events.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// EventType names a security event.
type EventType string

const (
	EventFailedLogin          EventType = "FAILED_LOGIN"
	EventRateLimitExceeded    EventType = "RATE_LIMIT_EXCEEDED"
	EventAccountLocked        EventType = "ACCOUNT_LOCKED"
	EventSessionRefreshFailed EventType = "SESSION_REFRESH_FAILED"
)

// Admin actions recorded by the session lifecycle.
const (
	ActionAdminLoginSuccess = "ADMIN_LOGIN_SUCCESS"
	ActionAdminLogout       = "ADMIN_LOGOUT"

	ResourceAdminSession = "admin_session"
)

// Entry is one row of the admin audit trail.
type Entry struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actor_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
	Status       Status         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// SecurityEvent records a security-relevant occurrence that is not tied to a
// completed admin action.
type SecurityEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"event_type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// FailedLogin is one rejected credential attempt.
type FailedLogin struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Lockout reasons.
const (
	ReasonThresholdReached = "too many failed login attempts"
	ReasonCheckUnavailable = "lockout check unavailable"
)

// LockoutStatus is the outcome of an account lockout check. Degraded is set
// when the check could not complete and Locked was reported false anyway.
type LockoutStatus struct {
	Locked   bool   `json:"locked"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}
