package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/mock/gomock"

	auditmodels "storeguard/internal/audit/models"
	"storeguard/internal/auth/client"
	"storeguard/internal/auth/models"
	sessionstore "storeguard/internal/session/store"
	dErrors "storeguard/pkg/domain-errors"
)

func (s *ManagerSuite) TestGetAccessToken() {
	s.Run("no session", func() {
		token, ok := s.manager.GetAccessToken(s.ctx)
		s.False(ok)
		s.Empty(token)
	})

	s.Run("fresh token is returned without refresh", func() {
		s.login()
		s.clock.Advance(13*time.Minute + 59*time.Second)

		token, ok := s.manager.GetAccessToken(s.ctx)
		s.True(ok)
		s.Equal("access-1", token)
	})
}

func (s *ManagerSuite) TestGetAccessTokenRefreshesInsideLeeway() {
	s.login()
	s.clock.Advance(14*time.Minute + time.Second)

	s.mockEndpoint.EXPECT().Refresh(gomock.Any(), "refresh-1").Return(&client.Response{
		Admin:        testAdmin(),
		AccessToken:  "access-2",
		RefreshToken: "refresh-2",
	}, nil)

	token, ok := s.manager.GetAccessToken(s.ctx)

	s.True(ok)
	s.Equal("access-2", token)
	stored := s.storedKeys()
	s.Equal("refresh-2", stored[sessionstore.KeyRefreshToken])
	s.Equal(models.StateAuthenticated, s.manager.State(s.ctx))
}

func (s *ManagerSuite) TestRefreshAtExactLeewayBoundary() {
	s.login()
	s.clock.Advance(14 * time.Minute)

	s.mockEndpoint.EXPECT().Refresh(gomock.Any(), "refresh-1").Return(&client.Response{
		Admin:       testAdmin(),
		AccessToken: "access-2",
	}, nil)

	token, ok := s.manager.GetAccessToken(s.ctx)
	s.True(ok)
	s.Equal("access-2", token)
	s.Equal("refresh-1", s.storedKeys()[sessionstore.KeyRefreshToken], "unrotated refresh token is kept")
}

func (s *ManagerSuite) TestRefreshFailureClearsSession() {
	s.login()
	s.seedCSRF()

	var logout auditmodels.Entry
	s.mockEndpoint.EXPECT().Refresh(gomock.Any(), "refresh-1").
		Return(nil, dErrors.New(dErrors.CodeAuthFailed, "auth endpoint returned status 401"))
	s.mockAudit.EXPECT().LogSecurityEvent(gomock.Any(), auditmodels.EventSessionRefreshFailed, gomock.Any(), gomock.Any(), gomock.Any())
	s.mockAudit.EXPECT().LogAdminAction(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, e auditmodels.Entry) { logout = e },
	)

	token, ok := s.manager.RefreshAccessToken(s.ctx)

	s.False(ok)
	s.Empty(token)
	for _, key := range sessionstore.SessionKeys {
		_, present, err := s.store.Get(s.ctx, key)
		s.Require().NoError(err)
		s.False(present, "%s should be cleared", key)
	}
	s.Equal(auditmodels.ActionAdminLogout, logout.Action)
	s.Equal("admin-1", logout.ActorID)
	s.Equal(models.StateAnonymous, s.manager.State(s.ctx))
}

func (s *ManagerSuite) TestRefreshWithoutRefreshToken() {
	token, ok := s.manager.RefreshAccessToken(s.ctx)
	s.False(ok)
	s.Empty(token)
}

func (s *ManagerSuite) TestConcurrentCallersShareOneRefresh() {
	s.login()
	s.clock.Advance(14*time.Minute + 30*time.Second)

	release := make(chan struct{})
	s.mockEndpoint.EXPECT().Refresh(gomock.Any(), "refresh-1").DoAndReturn(
		func(context.Context, string) (*client.Response, error) {
			<-release
			return &client.Response{Admin: testAdmin(), AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
		},
	).Times(1)

	const callers = 8
	var wg sync.WaitGroup
	tokens := make([]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], _ = s.manager.GetAccessToken(s.ctx)
		}()
	}

	s.Eventually(func() bool {
		return s.manager.State(s.ctx) == models.StateRefreshing
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for _, token := range tokens {
		s.Equal("access-2", token)
	}
}

func (s *ManagerSuite) TestState() {
	s.Equal(models.StateAnonymous, s.manager.State(s.ctx))
	s.Empty(s.manager.Info(s.ctx).Admin)

	s.login()
	s.Equal(models.StateAuthenticated, s.manager.State(s.ctx))
	info := s.manager.Info(s.ctx)
	s.Require().NotNil(info.Admin)
	s.Equal("admin-1", info.Admin.ID)
	s.Require().NotNil(info.ExpiresAt)
	s.True(s.clock.Now().Add(15*time.Minute).Equal(*info.ExpiresAt))

	s.clock.Advance(14 * time.Minute)
	s.Equal(models.StateExpiring, s.manager.State(s.ctx))

	admin, ok := s.manager.CurrentAdmin(s.ctx)
	s.True(ok)
	s.Equal(testEmail, admin.Email)
}
