package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	auditmodels "storeguard/internal/audit/models"
)

func (s *ManagerSuite) TestLogout() {
	s.login()
	s.seedCSRF()

	var recorded auditmodels.Entry
	s.mockEndpoint.EXPECT().Logout(gomock.Any(), "refresh-1").Return(nil)
	s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, e auditmodels.Entry) { recorded = e },
	)

	s.Require().NoError(s.manager.Logout(s.ctx))

	s.Empty(s.storedKeys())
	s.Equal(auditmodels.ActionAdminLogout, recorded.Action)
	s.Equal("admin-1", recorded.ActorID)
	s.Equal(map[string]any{"reason": "user"}, recorded.NewValues)
}

func (s *ManagerSuite) TestLogoutClearsEvenWhenEndpointFails() {
	s.login()

	s.mockEndpoint.EXPECT().Logout(gomock.Any(), "refresh-1").Return(errors.New("connection reset"))
	s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any())

	s.Require().NoError(s.manager.Logout(s.ctx))
	s.Empty(s.storedKeys())
}

func (s *ManagerSuite) TestLogoutWithoutSession() {
	var recorded auditmodels.Entry
	s.mockEndpoint.EXPECT().Logout(gomock.Any(), "").Return(nil)
	s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, e auditmodels.Entry) { recorded = e },
	)

	s.Require().NoError(s.manager.Logout(s.ctx))
	s.Empty(recorded.ActorID)
}
