package models

import (
	"time"
)

// Action names a rate-limited operation. Actions are the first segment of a
// limiter key.
type Action string

const (
	ActionLogin         Action = "LOGIN"
	ActionAdminLogin    Action = "ADMIN_LOGIN"
	ActionCreateOrder   Action = "CREATE_ORDER"
	ActionPasswordReset Action = "PASSWORD_RESET"
	ActionCreateProduct Action = "CREATE_PRODUCT"
	ActionAPICall       Action = "API_CALL"
	ActionSearch        Action = "SEARCH"
)

func (a Action) String() string {
	return string(a)
}

// Policy is the fixed-window budget for an action.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

// Valid reports whether the policy can admit any request.
func (p Policy) Valid() bool {
	return p.MaxRequests > 0 && p.Window > 0
}

// Entry is the live counter for one key. Entries are reset, not destroyed,
// once the window boundary is crossed.
type Entry struct {
	Key     string
	Count   int
	ResetAt time.Time
}

// Expired reports whether the window has elapsed at now.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.ResetAt)
}

// Result describes the outcome of a named-policy check.
type Result struct {
	Allowed    bool          `json:"allowed"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	RetryAfter time.Duration `json:"retry_after,omitempty"` // only set when not allowed
}
