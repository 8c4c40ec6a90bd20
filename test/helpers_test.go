//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/mm2kbench/internal/auth"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) do(
	ctx context.Context,
	method, path, body string,
	cookies ...*http.Cookie,
) *http.Response {
	t := s.T()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (s *IntegrationTestSuite) doJSON(
	ctx context.Context,
	method, path, body string,
	expectedStatus int,
	out interface{},
	cookies ...*http.Cookie,
) {
	t := s.T()
	resp := s.do(ctx, method, path, body, cookies...)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, resp.StatusCode, string(respBytes))
	if out != nil {
		require.NoError(t, json.Unmarshal(respBytes, out))
	}
}

func (s *IntegrationTestSuite) login(ctx context.Context) *http.Cookie {
	t := s.T()
	resp := s.do(ctx, http.MethodPost, "/api/admin/login", `{"code":"`+testAdminCode+`"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("admin cookie missing from login response")
	return nil
}
