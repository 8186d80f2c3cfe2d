package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/portfolio/internal/project"
)

func (s *IntegrationTestSuite) TestProjectsCRUD() {
	ctx := context.Background()

	input := project.Input{
		Title:       "Portfolio",
		Description: "This website",
		Tech:        "Go, Postgres | Redis",
		Github:      "https://github.com/someone/portfolio",
	}

	status, _ := s.do(ctx, http.MethodPost, "/api/projects", "", input)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal(0, s.countRows("project"))

	token := s.login(ctx)
	status, body := s.do(ctx, http.MethodPost, "/api/projects", token, input)
	s.Require().Equal(http.StatusCreated, status, string(body))
	created := decode[project.Project](s.T(), body)
	s.Equal("Go, Postgres, Redis", created.Tech)

	status, body = s.do(ctx, http.MethodPost, "/api/projects", token, project.Input{
		Title:       "CLI",
		Description: "Admin command line",
		Tech:        "Go",
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, body = s.do(ctx, http.MethodGet, "/api/projects?sort=az", "", nil)
	s.Require().Equal(http.StatusOK, status)
	listed := decode[[]project.Project](s.T(), body)
	s.Require().Len(listed, 2)
	s.Equal("CLI", listed[0].Title)

	status, body = s.do(ctx, http.MethodGet, "/api/projects?tech=Redis", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(decode[[]project.Project](s.T(), body), 1)

	status, body = s.do(ctx, http.MethodGet, "/api/projects/tech", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal([]string{"Go", "Postgres", "Redis"}, decode[[]string](s.T(), body))

	projectPath := fmt.Sprintf("/api/projects/%d", created.ID)
	input.Title = "Portfolio v2"
	status, body = s.do(ctx, http.MethodPut, projectPath, token, input)
	s.Require().Equal(http.StatusOK, status, string(body))
	updated := decode[project.Project](s.T(), body)
	s.Equal("Portfolio v2", updated.Title)
	s.False(updated.UpdatedAt.Before(created.UpdatedAt))

	github := ""
	status, body = s.do(ctx, http.MethodPut, projectPath, token, project.Patch{Github: &github})
	s.Require().Equal(http.StatusOK, status, string(body))
	patched := decode[project.Project](s.T(), body)
	s.Equal("Portfolio v2", patched.Title)
	s.Equal("This website", patched.Description)
	s.Empty(patched.Github)

	status, _ = s.do(ctx, http.MethodDelete, projectPath, "", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal(2, s.countRows("project"))

	status, _ = s.do(ctx, http.MethodDelete, projectPath, token, nil)
	s.Equal(http.StatusOK, status)
	s.Equal(1, s.countRows("project"))

	status, _ = s.do(ctx, http.MethodGet, projectPath, "", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestDeleteMissingProject() {
	ctx := context.Background()
	token := s.login(ctx)

	status, _ := s.do(ctx, http.MethodPost, "/api/projects", token, project.Input{
		Title: "Keep", Description: "stays", Tech: "Go",
	})
	s.Require().Equal(http.StatusCreated, status)

	status, body := s.do(ctx, http.MethodDelete, "/api/projects/424242", token, nil)
	s.Equal(http.StatusNotFound, status)
	s.JSONEq(`{"message":"project not found"}`, string(body))
	s.Equal(1, s.countRows("project"))
}

func (s *IntegrationTestSuite) TestProjectValidation() {
	ctx := context.Background()
	token := s.login(ctx)

	status, body := s.do(ctx, http.MethodPost, "/api/projects", token, project.Input{
		Title:  " ",
		Github: "ftp://nope",
	})
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "title")
	s.Equal(0, s.countRows("project"))
}
