package service

import (
	"context"

	auditmodels "storeguard/internal/audit/models"
	sessionstore "storeguard/internal/session/store"
)

const refreshFlightKey = "refresh"

// GetAccessToken returns a usable access token, refreshing it when it is
// missing or within the refresh leeway of expiry. ok is false when there is
// no session or the refresh failed.
func (m *Manager) GetAccessToken(ctx context.Context) (string, bool) {
	if token, ok := m.freshAccessToken(ctx); ok {
		return token, true
	}
	return m.refresh(ctx, true)
}

// RefreshAccessToken exchanges the refresh token for a new access token.
// A rejected or failed refresh logs the admin out. Concurrent callers share a
// single in-flight refresh.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, bool) {
	return m.refresh(ctx, false)
}

// refresh runs at most one refresh at a time. When recheck is set, a caller
// that queued behind a completed refresh picks up the new token instead of
// issuing another call.
func (m *Manager) refresh(ctx context.Context, recheck bool) (string, bool) {
	// Shared by every waiter, so one caller's cancellation must not abort it.
	flightCtx := context.WithoutCancel(ctx)
	v, _, _ := m.flight.Do(refreshFlightKey, func() (any, error) {
		if recheck {
			if token, ok := m.freshAccessToken(flightCtx); ok {
				return token, nil
			}
		}
		return m.doRefresh(flightCtx), nil
	})
	token, _ := v.(string)
	return token, token != ""
}

func (m *Manager) doRefresh(ctx context.Context) string {
	refreshToken, ok, err := m.store.Get(ctx, sessionstore.KeyRefreshToken)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to read refresh token", "error", err)
		return ""
	}
	if !ok || refreshToken == "" {
		m.incRefresh("no_session")
		return ""
	}

	m.refreshing.Store(true)
	defer m.refreshing.Store(false)

	start := m.clock.Now()
	resp, err := m.endpoint.Refresh(ctx, refreshToken)
	if m.metrics != nil {
		m.metrics.ObserveRefreshDuration(m.clock.Now().Sub(start).Seconds())
	}
	if err != nil {
		m.logger.WarnContext(ctx, "token refresh failed, ending session", "error", err)
		m.audit.LogSecurityEvent(ctx, auditmodels.EventSessionRefreshFailed, auditmodels.SeverityMedium,
			"Access token refresh failed; session ended", nil)
		m.incRefresh("failed")
		_ = m.logout(ctx, logoutReasonRefreshFailed)
		return ""
	}

	if _, err := m.storeTokens(ctx, resp.Admin, resp.AccessToken, resp.RefreshToken); err != nil {
		m.logger.ErrorContext(ctx, "failed to persist refreshed tokens", "error", err)
		m.incRefresh("failed")
		_ = m.logout(ctx, logoutReasonRefreshFailed)
		return ""
	}
	m.incRefresh("success")
	return resp.AccessToken
}

// freshAccessToken returns the stored token when it is outside the refresh leeway.
func (m *Manager) freshAccessToken(ctx context.Context) (string, bool) {
	token, expiresAt, err := m.storedAccessToken(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to read access token", "error", err)
		return "", false
	}
	if token == "" || m.needsRefresh(expiresAt) {
		return "", false
	}
	return token, true
}

func (m *Manager) incRefresh(outcome string) {
	if m.metrics != nil {
		m.metrics.IncRefresh(outcome)
	}
}
