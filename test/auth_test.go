package test

import (
	"context"
	"net/http"

	"github.com/2beens/portfolio/internal/adminclient"
	"github.com/2beens/portfolio/internal/auth"
)

func (s *IntegrationTestSuite) TestLogin() {
	ctx := context.Background()

	cases := map[string]struct {
		creds              auth.Credentials
		expectedStatusCode int
	}{
		"good creds":  {auth.Credentials{Email: testAdminEmail, Password: testAdminPassword}, http.StatusOK},
		"bad email":   {auth.Credentials{Email: "someone@portfolio.test", Password: testAdminPassword}, http.StatusUnauthorized},
		"bad pass":    {auth.Credentials{Email: testAdminEmail, Password: "bad-password"}, http.StatusUnauthorized},
		"empty creds": {auth.Credentials{}, http.StatusUnauthorized},
	}

	for name, tc := range cases {
		s.Run(name, func() {
			status, body := s.do(ctx, http.MethodPost, "/api/admin/login", "", tc.creds)
			s.Equal(tc.expectedStatusCode, status)
			if status == http.StatusUnauthorized {
				s.JSONEq(`{"message":"invalid credentials"}`, string(body))
				return
			}

			resp := decode[struct {
				Token string `json:"token"`
			}](s.T(), body)
			s.NotEmpty(resp.Token)
		})
	}
}

func (s *IntegrationTestSuite) TestSessionLifecycle() {
	ctx := context.Background()
	token := s.login(ctx)

	status, body := s.do(ctx, http.MethodGet, "/api/admin/session", token, nil)
	s.Require().Equal(http.StatusOK, status)
	session := decode[adminclient.Session](s.T(), body)
	s.Equal(auth.Subject, session.Subject)
	s.Equal(testAdminEmail, session.Email)

	status, _ = s.do(ctx, http.MethodGet, "/api/contact", flipLastChar(token), nil)
	s.Equal(http.StatusUnauthorized, status)

	status, _ = s.do(ctx, http.MethodPost, "/api/admin/logout", token, nil)
	s.Require().Equal(http.StatusOK, status)

	// revoked in redis, although the signature is still valid
	status, body = s.do(ctx, http.MethodGet, "/api/admin/session", token, nil)
	s.Equal(http.StatusUnauthorized, status)
	s.JSONEq(`{"message":"unauthorized"}`, string(body))

	// a fresh login is not affected
	status, _ = s.do(ctx, http.MethodGet, "/api/admin/session", s.login(ctx), nil)
	s.Equal(http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestAdminClient() {
	ctx := context.Background()
	client, store := s.newAdminClient()

	_, err := client.ListMessages(ctx)
	s.Require().ErrorIs(err, adminclient.ErrLoginRequired)

	_, err = client.Login(ctx, testAdminEmail, "wrong")
	s.Require().ErrorIs(err, adminclient.ErrLoginFailed)

	_, err = client.Login(ctx, testAdminEmail, testAdminPassword)
	s.Require().NoError(err)

	messages, err := client.ListMessages(ctx)
	s.Require().NoError(err)
	s.Empty(messages)

	s.Require().NoError(client.Logout(ctx))
	token, err := store.Load()
	s.Require().NoError(err)
	s.Empty(token)
}
