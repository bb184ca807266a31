package service

import (
	"context"
	"strings"

	auditmodels "storeguard/internal/audit/models"
	"storeguard/internal/auth/models"
	rlmodels "storeguard/internal/ratelimit/models"
	sessionstore "storeguard/internal/session/store"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/result"
)

// Login authenticates an admin. Checks run in order: input validation, the
// ADMIN_LOGIN rate limit, account lockout, then the auth endpoint. Rejected
// credentials yield an AuthFailed result rather than an error from the
// endpoint.
func (m *Manager) Login(ctx context.Context, email, password string) result.Result[*models.Session] {
	req := models.LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		m.incLogin("invalid")
		return result.Fail[*models.Session](err)
	}

	if err := m.checkLoginRateLimit(ctx, email); err != nil {
		m.incLogin("rate_limited")
		return result.Fail[*models.Session](err)
	}

	lock := m.audit.IsAccountLocked(ctx, email)
	if lock.Locked {
		m.audit.LogSecurityEvent(ctx, auditmodels.EventAccountLocked, auditmodels.SeverityHigh,
			"Login attempt on locked account", map[string]any{"email": email})
		m.incLogin("locked")
		return result.Fail[*models.Session](dErrors.New(dErrors.CodeAccountLocked,
			"account is temporarily locked due to too many failed login attempts"))
	}
	if lock.Degraded && m.metrics != nil {
		m.metrics.IncLockoutDegraded()
	}

	resp, err := m.endpoint.Login(ctx, email, password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeAuthFailed) {
			m.audit.LogFailedLogin(ctx, email)
			m.audit.LogSecurityEvent(ctx, auditmodels.EventFailedLogin, auditmodels.SeverityMedium,
				"Failed admin login attempt", map[string]any{"email": email})
			m.incLogin("failed")
			return result.Fail[*models.Session](dErrors.New(dErrors.CodeAuthFailed, "invalid email or password"))
		}
		m.logger.ErrorContext(ctx, "auth endpoint login failed", "error", err)
		m.incLogin("error")
		return result.Fail[*models.Session](err)
	}

	expiresAt, err := m.storeTokens(ctx, resp.Admin, resp.AccessToken, resp.RefreshToken)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to persist session", "error", err)
		if delErr := m.store.Delete(ctx, sessionstore.SessionKeys...); delErr != nil {
			m.logger.ErrorContext(ctx, "failed to clear partial session", "error", delErr)
		}
		m.incLogin("error")
		return result.Fail[*models.Session](dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session"))
	}

	m.audit.LogAdminAction(ctx, auditmodels.Entry{
		ActorID:      resp.Admin.ID,
		Action:       auditmodels.ActionAdminLoginSuccess,
		ResourceType: auditmodels.ResourceAdminSession,
		ResourceID:   resp.Admin.ID,
		Status:       auditmodels.StatusSuccess,
	})
	m.logger.InfoContext(ctx, "admin logged in",
		"admin_id", resp.Admin.ID,
		"expires_at", expiresAt,
	)
	m.incLogin("success")

	return result.OK(&models.Session{
		Admin:       resp.Admin,
		AccessToken: resp.AccessToken,
		ExpiresAt:   expiresAt,
	})
}

// checkLoginRateLimit consumes one ADMIN_LOGIN attempt for email. Addresses
// differing only in case or surrounding space share one budget. A limiter
// failure is logged and the attempt is let through.
func (m *Manager) checkLoginRateLimit(ctx context.Context, email string) error {
	if m.limiter == nil {
		return nil
	}
	res, err := m.limiter.Check(ctx, rlmodels.ActionAdminLogin, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		m.logger.WarnContext(ctx, "login rate limit check failed, allowing attempt", "error", err)
		if m.metrics != nil {
			m.metrics.IncRateLimitCheckError()
		}
		return nil
	}
	if res.Allowed {
		return nil
	}
	m.audit.LogSecurityEvent(ctx, auditmodels.EventRateLimitExceeded, auditmodels.SeverityHigh,
		"Too many admin login attempts", map[string]any{
			"email":       email,
			"action":      string(rlmodels.ActionAdminLogin),
			"retry_after": int(res.RetryAfter.Seconds()),
		})
	return dErrors.NewRateLimited("too many login attempts, please try again later", res.RetryAfter)
}

func (m *Manager) incLogin(outcome string) {
	if m.metrics != nil {
		m.metrics.IncLogin(outcome)
	}
}
