// Package models holds the admin session types.
package models

import (
	"slices"
	"time"

	"storeguard/pkg/validation"
)

const (
	// AccessTokenTTL is the lifetime assigned to a freshly issued access token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshLeeway is how long before expiry an access token is renewed.
	RefreshLeeway = 60 * time.Second
)

// AdminIdentity is the authenticated administrator as reported by the auth endpoint.
type AdminIdentity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission reports whether the admin holds permission.
func (a AdminIdentity) HasPermission(permission string) bool {
	return slices.Contains(a.Permissions, permission)
}

// LoginRequest carries credentials submitted by an admin.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"notblank,max=1024"`
}

// Validate checks the credential shape before any network call.
func (r LoginRequest) Validate() error {
	return validation.Validate(r)
}

// Session is a successfully established admin session.
type Session struct {
	Admin       AdminIdentity `json:"admin"`
	AccessToken string        `json:"-"`
	ExpiresAt   time.Time     `json:"expires_at"`
}

// State is the lifecycle position of the admin session.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateExpiring
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpiring:
		return "expiring"
	case StateRefreshing:
		return "refreshing"
	default:
		return "anonymous"
	}
}

// SessionInfo describes the current session without exposing tokens.
type SessionInfo struct {
	State     State          `json:"-"`
	Admin     *AdminIdentity `json:"admin,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}
