package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/portfolio/internal/contact"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *IntegrationTestSuite) TestContactMessageLifecycle() {
	ctx := context.Background()

	status, body := s.do(ctx, http.MethodPost, "/api/contact", "", contact.Input{
		Name:    "A",
		Email:   "a@a.com",
		Message: "hello world!",
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	created := decode[struct {
		Saved contact.Message `json:"saved"`
	}](s.T(), body)
	s.Require().NotZero(created.Saved.ID)
	s.Equal(1, s.countRows("contact_message"))

	messagePath := fmt.Sprintf("/api/contact/%d", created.Saved.ID)
	status, _ = s.do(ctx, http.MethodDelete, messagePath, "", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal(1, s.countRows("contact_message"))

	token := s.login(ctx)
	status, _ = s.do(ctx, http.MethodDelete, messagePath, token, nil)
	s.Equal(http.StatusOK, status)
	s.Equal(0, s.countRows("contact_message"))

	status, _ = s.do(ctx, http.MethodDelete, messagePath, token, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestContactMessagesListAndClear() {
	ctx := context.Background()

	for i := range 3 {
		status, body := s.do(ctx, http.MethodPost, "/api/contact", "", contact.Input{
			Name:    fmt.Sprintf("%s %d", gofakeit.FirstName(), i),
			Email:   gofakeit.Email(),
			Message: gofakeit.Sentence(8),
		})
		s.Require().Equal(http.StatusCreated, status, string(body))
	}

	status, _ := s.do(ctx, http.MethodDelete, "/api/contact", "", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal(3, s.countRows("contact_message"))

	token := s.login(ctx)
	status, body := s.do(ctx, http.MethodGet, "/api/contact", token, nil)
	s.Require().Equal(http.StatusOK, status)
	messages := decode[[]contact.Message](s.T(), body)
	s.Require().Len(messages, 3)
	s.Greater(messages[0].ID, messages[2].ID)

	status, body = s.do(ctx, http.MethodDelete, "/api/contact", token, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`{"message":"all messages deleted","deleted":3}`, string(body))
	s.Equal(0, s.countRows("contact_message"))
}

func (s *IntegrationTestSuite) TestContactMessageValidation() {
	status, body := s.do(context.Background(), http.MethodPost, "/api/contact", "", contact.Input{
		Name:    "",
		Email:   "not-an-email",
		Message: "short",
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "fields")
	s.Equal(0, s.countRows("contact_message"))
}
