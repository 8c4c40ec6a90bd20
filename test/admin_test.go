//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"

	"github.com/2beens/mm2kbench/internal/profiles"

	"github.com/stretchr/testify/assert"
)

func (s *IntegrationTestSuite) TestAdminLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.doJSON(ctx, http.MethodGet, "/api/admin/profiles", "", http.StatusUnauthorized, nil)
	s.doJSON(ctx, http.MethodPost, "/api/admin/login", `{"code":"nope"}`, http.StatusUnauthorized, nil)

	s.doJSON(ctx, http.MethodPost, "/api/profiles/admin-crew/athletes",
		`{"name":"Ivo","oneRmKg":80}`, http.StatusCreated, nil,
	)

	cookie := s.login(ctx)

	var list profiles.AdminListResponse
	s.doJSON(ctx, http.MethodGet, "/api/admin/profiles", "", http.StatusOK, &list, cookie)
	var keys []string
	for _, p := range list.Profiles {
		keys = append(keys, p.Key)
	}
	assert.Contains(t, keys, "admin-crew")

	var link profiles.ShareLinkResponse
	s.doJSON(ctx, http.MethodGet, "/api/admin/sharelink?key=admin-crew", "", http.StatusOK, &link, cookie)
	assert.Equal(t, "https://bench.example.com?k=admin-crew", link.Link)

	s.doJSON(ctx, http.MethodDelete, "/api/admin/profiles/admin-crew", "", http.StatusOK, nil, cookie)
	s.doJSON(ctx, http.MethodGet, "/api/profiles/admin-crew", "", http.StatusNotFound, nil)

	s.doJSON(ctx, http.MethodPost, "/api/admin/login", `{"logout":true}`, http.StatusNoContent, nil, cookie)
	s.doJSON(ctx, http.MethodGet, "/api/admin/profiles", "", http.StatusUnauthorized, nil, cookie)
}

func (s *IntegrationTestSuite) TestCors() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, serverEndpoint+"/api/profiles/x/athletes", nil)
	assert.NoError(t, err)
	req.Header.Set("Origin", testOrigin)
	resp, err := s.httpClient.Do(req)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
}
