package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/portfolio/internal/adminclient"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) newAdminClient() (*adminclient.Client, *adminclient.FileTokenStore) {
	store := adminclient.NewFileTokenStore(s.T().TempDir())
	return adminclient.NewClient(serverEndpoint, store, s.httpClient), store
}

func (s *IntegrationTestSuite) login(ctx context.Context) string {
	client, store := s.newAdminClient()
	_, err := client.Login(ctx, testAdminEmail, testAdminPassword)
	s.Require().NoError(err)

	token, err := store.Load()
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	return token
}

// do sends a JSON request and returns the status code and the raw body.
func (s *IntegrationTestSuite) do(ctx context.Context, method, path, token string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) countRows(table string) int {
	var count int
	s.Require().NoError(s.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count))
	return count
}

func flipLastChar(token string) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	last := token[len(token)-1]
	idx := bytes.IndexByte([]byte(alphabet), last)
	return token[:len(token)-1] + string(alphabet[idx^1])
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}
