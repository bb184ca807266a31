package service

import (
	"net/http"

	dErrors "storeguard/pkg/domain-errors"
)

// Do sends req with the session's bearer token and a JSON content type.
// It fails with an auth_required error when no usable token exists. req is
// not modified.
func (m *Manager) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	token, ok := m.GetAccessToken(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeAuthRequired, "not authenticated")
	}

	out := req.Clone(ctx)
	out.Header.Set("Authorization", "Bearer "+token)
	out.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(out)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNetwork, "request failed")
	}
	return resp, nil
}
