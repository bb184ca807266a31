package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Endpoint,RateLimiter,AuditLogger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	auditmodels "storeguard/internal/audit/models"
	"storeguard/internal/auth/client"
	"storeguard/internal/auth/metrics"
	"storeguard/internal/auth/models"
	"storeguard/internal/auth/service/mocks"
	rlmodels "storeguard/internal/ratelimit/models"
	sessionstore "storeguard/internal/session/store"
	"storeguard/pkg/platform/clock"
)

const (
	testEmail    = "owner@shop.test"
	testPassword = "correct-horse"
)

type ManagerSuite struct {
	suite.Suite
	ctx          context.Context
	ctrl         *gomock.Controller
	clock        *clock.Fake
	store        *sessionstore.InMemoryStore
	mockEndpoint *mocks.MockEndpoint
	mockLimiter  *mocks.MockRateLimiter
	mockAudit    *mocks.MockAuditLogger
	metrics      *metrics.Metrics
	manager      *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.clock = clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.store = sessionstore.NewInMemoryStore()
	s.mockEndpoint = mocks.NewMockEndpoint(s.ctrl)
	s.mockLimiter = mocks.NewMockRateLimiter(s.ctrl)
	s.mockAudit = mocks.NewMockAuditLogger(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())

	m, err := New(s.store, s.mockEndpoint, s.mockAudit,
		WithClock(s.clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRateLimiter(s.mockLimiter),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.manager = m
}

func (s *ManagerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func testAdmin() models.AdminIdentity {
	return models.AdminIdentity{
		ID:          "admin-1",
		Email:       testEmail,
		Name:        "Shop Owner",
		Role:        "owner",
		Permissions: []string{"products:write"},
	}
}

func allowed() *rlmodels.Result {
	return &rlmodels.Result{Allowed: true, Limit: 3, Remaining: 2}
}

// login establishes a session issued at the current fake time.
func (s *ManagerSuite) login() *models.Session {
	s.mockLimiter.EXPECT().Check(gomock.Any(), rlmodels.ActionAdminLogin, testEmail).Return(allowed(), nil)
	s.mockAudit.EXPECT().IsAccountLocked(gomock.Any(), testEmail).Return(auditmodels.LockoutStatus{})
	s.mockEndpoint.EXPECT().Login(gomock.Any(), testEmail, testPassword).Return(&client.Response{
		Admin:        testAdmin(),
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
	}, nil)
	s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any())

	res := s.manager.Login(s.ctx, testEmail, testPassword)
	s.Require().True(res.IsOK(), "login failed: %v", res.Err)
	return res.Value
}

func (s *ManagerSuite) storedKeys() map[string]string {
	return s.store.Snapshot()
}

// seedCSRF stores a CSRF token so clearing can be asserted across every session key.
func (s *ManagerSuite) seedCSRF() {
	s.Require().NoError(s.store.Set(s.ctx, sessionstore.KeyCSRFToken, "csrf-token"))
	s.Require().NoError(s.store.Set(s.ctx, sessionstore.KeyCSRFExpiry, "0"))
}
