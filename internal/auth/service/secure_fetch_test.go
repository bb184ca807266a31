package service

import (
	"net/http"
	"net/http/httptest"
	"strings"

	dErrors "storeguard/pkg/domain-errors"
)

func (s *ManagerSuite) TestDoRequiresSession() {
	req := httptest.NewRequest(http.MethodGet, "https://api.shop.test/products", nil)

	resp, err := s.manager.Do(req)

	s.Nil(resp)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAuthRequired))
}

func (s *ManagerSuite) TestDoAttachesBearerToken() {
	var authorization, contentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	s.T().Cleanup(upstream.Close)
	s.manager.httpClient = upstream.Client()

	s.login()
	req, err := http.NewRequest(http.MethodPost, upstream.URL+"/products", strings.NewReader(`{"name":"mug"}`))
	s.Require().NoError(err)

	resp, err := s.manager.Do(req)
	s.Require().NoError(err)
	_ = resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal("Bearer access-1", authorization)
	s.Equal("application/json", contentType)
	s.Empty(req.Header.Get("Authorization"), "caller request is not mutated")
}
