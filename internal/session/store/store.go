// Package store holds the ephemeral key/value state of one admin session: the
// token pair, the admin identity and the CSRF token.
package store

import (
	"context"
)

// Session keys.
const (
	KeyAccessToken  = "adminAccessToken"
	KeyRefreshToken = "adminRefreshToken"
	KeyAdminData    = "adminData"
	KeyTokenExpiry  = "adminTokenExpiry"
	KeyCSRFToken    = "csrfToken"
	KeyCSRFExpiry   = "csrfTokenExpiry"
)

// SessionKeys lists every key a logout must clear.
var SessionKeys = []string{
	KeyAccessToken,
	KeyRefreshToken,
	KeyAdminData,
	KeyTokenExpiry,
	KeyCSRFToken,
	KeyCSRFExpiry,
}

// Store is an ephemeral string key/value store scoped to one session.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
