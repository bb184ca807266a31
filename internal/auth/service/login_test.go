package service

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	auditmodels "storeguard/internal/audit/models"
	"storeguard/internal/auth/client"
	"storeguard/internal/auth/models"
	rlmodels "storeguard/internal/ratelimit/models"
	sessionstore "storeguard/internal/session/store"
	dErrors "storeguard/pkg/domain-errors"
	"storeguard/pkg/result"
)

func (s *ManagerSuite) TestLoginSuccess() {
	var recorded auditmodels.Entry
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(allowed(), nil)
	s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{})
	s.mockEndpoint.EXPECT().Login(gomock.Any(), testEmail, testPassword).Return(&client.Response{
		Admin:        testAdmin(),
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}, nil)
	s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, e auditmodels.Entry) { recorded = e },
	)

	res := s.manager.Login(s.ctx, testEmail, testPassword)

	s.Require().True(res.IsOK())
	s.Equal(result.KindOK, res.Kind())
	s.Equal("admin-1", res.Value.Admin.ID)
	s.Equal("access-1", res.Value.AccessToken)
	s.Equal(s.clock.Now().Add(15*time.Minute), res.Value.ExpiresAt)

	stored := s.storedKeys()
	s.Equal("access-1", stored[sessionstore.KeyAccessToken])
	s.Equal("refresh-1", stored[sessionstore.KeyRefreshToken])
	s.Contains(stored[sessionstore.KeyAdminData], `"id":"admin-1"`)

	s.Equal(auditmodels.ActionAdminLoginSuccess, recorded.Action)
	s.Equal(auditmodels.ResourceAdminSession, recorded.ResourceType)
	s.Equal("admin-1", recorded.ActorID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.LoginAttemptsTotal.WithLabelValues("success")))
}

func (s *ManagerSuite) TestLoginValidation() {
	res := s.manager.Login(s.ctx, "not-an-email", testPassword)
	s.Equal(result.KindValidation, res.Kind())

	res = s.manager.Login(s.ctx, testEmail, "   ")
	s.Equal(result.KindValidation, res.Kind())
	s.Empty(s.storedKeys())
}

func (s *ManagerSuite) TestLoginRateLimitedBeforeLockout() {
	var eventType auditmodels.EventType
	var severity auditmodels.Severity
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(&rlmodels.Result{
		Allowed:    false,
		Limit:      3,
		RetryAfter: 10 * time.Minute,
	}, nil)
	s.mockAudit.EXPECT().LogSecurityEvent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, t auditmodels.EventType, sev auditmodels.Severity, _ string, md map[string]any) {
			eventType, severity = t, sev
			s.Equal(testEmail, md["email"])
		},
	)

	res := s.manager.Login(s.ctx, testEmail, testPassword)

	s.Equal(result.KindRateLimited, res.Kind())
	s.Equal(10*time.Minute, dErrors.RetryAfter(res.Err))
	s.Equal(auditmodels.EventRateLimitExceeded, eventType)
	s.Equal(auditmodels.SeverityHigh, severity)
}

func (s *ManagerSuite) TestLoginAccountLocked() {
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(allowed(), nil)
	s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{
		Locked: true,
		Reason: auditmodels.ReasonThresholdReached,
	})
	s.mockAudit.EXPECT().LogSecurityEvent(gomock.Any(), auditmodels.EventAccountLocked, auditmodels.SeverityHigh, gomock.Any(), gomock.Any())

	res := s.manager.Login(s.ctx, testEmail, testPassword)

	s.Equal(result.KindAccountLocked, res.Kind())
}

func (s *ManagerSuite) TestLoginRejectedCredentials() {
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(allowed(), nil)
	s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{})
	s.mockEndpoint.EXPECT().Login(gomock.Any(), testEmail, "wrong").
		Return(nil, dErrors.New(dErrors.CodeAuthFailed, "auth endpoint returned status 401"))
	gomock.InOrder(
		s.mockAudit.EXPECT().LogFailedLogin(gomock.Any(), testEmail),
		s.mockAudit.EXPECT().LogSecurityEvent(gomock.Any(), auditmodels.EventFailedLogin, auditmodels.SeverityMedium, gomock.Any(), gomock.Any()),
	)

	res := s.manager.Login(s.ctx, testEmail, "wrong")

	s.Equal(result.KindAuthFailed, res.Kind())
	s.Nil(res.Value)
	s.Empty(s.storedKeys())
}

func (s *ManagerSuite) TestLoginNetworkFailureIsNotAFailedLogin() {
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(allowed(), nil)
	s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{})
	s.mockEndpoint.EXPECT().Login(gomock.Any(), testEmail, testPassword).
		Return(nil, dErrors.Wrap(errors.New("dial tcp: connection refused"), dErrors.CodeNetwork, "auth endpoint unreachable"))

	res := s.manager.Login(s.ctx, testEmail, testPassword)

	s.Equal(result.KindNetwork, res.Kind())
}

func (s *ManagerSuite) TestLoginFailsOpen() {
	s.Run("rate limiter error", func() {
		s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(nil, errors.New("redis down"))
		s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{Degraded: true})
		s.mockEndpoint.EXPECT().Login(gomock.Any(), testEmail, testPassword).Return(&client.Response{
			Admin:        testAdmin(),
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		}, nil)
		s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any())

		res := s.manager.Login(s.ctx, testEmail, testPassword)

		s.True(res.IsOK())
		s.Equal(1.0, testutil.ToFloat64(s.metrics.RateLimitCheckErrors))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.LockoutDegradedLogins))
	})
}

// adminDataFailingStore rejects writes of the admin identity.
type adminDataFailingStore struct {
	*sessionstore.InMemoryStore
}

func (f adminDataFailingStore) Set(ctx context.Context, key, value string) error {
	if key == sessionstore.KeyAdminData {
		return errors.New("store unavailable")
	}
	return f.InMemoryStore.Set(ctx, key, value)
}

func (s *ManagerSuite) TestLoginPersistFailureLeavesNoSession() {
	store := adminDataFailingStore{InMemoryStore: s.store}
	m, err := New(store, s.mockEndpoint, s.mockAudit,
		WithClock(s.clock),
		WithLogger(s.manager.logger),
		WithRateLimiter(s.mockLimiter),
	)
	s.Require().NoError(err)
	s.seedCSRF()

	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(allowed(), nil)
	s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{})
	s.mockEndpoint.EXPECT().Login(gomock.Any(), testEmail, testPassword).Return(&client.Response{
		Admin:        testAdmin(),
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}, nil)

	res := m.Login(s.ctx, testEmail, testPassword)
	s.Require().False(res.IsOK())
	s.True(dErrors.HasCode(res.Err, dErrors.CodeInternal))

	s.Empty(s.storedKeys())
	token, ok := m.GetAccessToken(s.ctx)
	s.False(ok)
	s.Empty(token)
	_, hasAdmin := m.CurrentAdmin(s.ctx)
	s.False(hasAdmin)
	s.Equal(models.StateAnonymous, m.State(s.ctx))
}

func (s *ManagerSuite) TestLoginRateLimitKeyIgnoresEmailCase() {
	const mixedCase = "Owner@Shop.Test"
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(&rlmodels.Result{
		Allowed:    false,
		Limit:      3,
		RetryAfter: time.Minute,
	}, nil)
	s.mockAudit.EXPECT().LogSecurityEvent(gomock.Any(), auditmodels.EventRateLimitExceeded, gomock.Any(), gomock.Any(), gomock.Any())

	res := s.manager.Login(s.ctx, mixedCase, testPassword)

	s.Equal(result.KindRateLimited, res.Kind())
}
