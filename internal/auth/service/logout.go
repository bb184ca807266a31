package service

import (
	"context"

	auditmodels "storeguard/internal/audit/models"
	sessionstore "storeguard/internal/session/store"
	dErrors "storeguard/pkg/domain-errors"
)

const (
	logoutReasonUser          = "user"
	logoutReasonRefreshFailed = "refresh_failed"
)

// Logout ends the session. The auth endpoint is told best-effort; local
// session state is cleared regardless of its answer. The returned error only
// reports a failure to clear local state.
func (m *Manager) Logout(ctx context.Context) error {
	return m.logout(ctx, logoutReasonUser)
}

func (m *Manager) logout(ctx context.Context, reason string) error {
	refreshToken, _, err := m.store.Get(ctx, sessionstore.KeyRefreshToken)
	if err != nil {
		m.logger.WarnContext(ctx, "failed to read refresh token for logout", "error", err)
	}
	admin, hadSession := m.CurrentAdmin(ctx)

	if reason == logoutReasonUser {
		if err := m.endpoint.Logout(ctx, refreshToken); err != nil {
			m.logger.WarnContext(ctx, "auth endpoint logout failed", "error", err)
		}
	}

	if err := m.store.Delete(ctx, sessionstore.SessionKeys...); err != nil {
		m.logger.ErrorContext(ctx, "failed to clear session", "error", err)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear session")
	}

	entry := auditmodels.Entry{
		Action:       auditmodels.ActionAdminLogout,
		ResourceType: auditmodels.ResourceAdminSession,
		Status:       auditmodels.StatusSuccess,
		NewValues:    map[string]any{"reason": reason},
	}
	if hadSession {
		entry.ActorID = admin.ID
		entry.ResourceID = admin.ID
	}
	m.audit.LogAdminAction(ctx, entry)
	if m.metrics != nil {
		m.metrics.IncLogout(reason)
	}
	return nil
}
