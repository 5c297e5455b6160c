package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/posts"
	"github.com/intralink/intralink/internal/projects"
	"github.com/intralink/intralink/internal/tasks"
	"github.com/intralink/intralink/internal/users"
	_ "github.com/intralink/intralink/testing"
)

// The stubs embed the port interface so only Search needs implementing.

type stubPostsRepo struct {
	posts.RepositoryPort
	hits []posts.Post
	err  error
}

func (s *stubPostsRepo) Search(ctx context.Context, query string, limit int) ([]posts.Post, error) {
	return s.hits, s.err
}

type stubUsersRepo struct {
	users.RepositoryPort
	hits []users.User
}

func (s *stubUsersRepo) Search(ctx context.Context, query string, limit int) ([]users.User, error) {
	return s.hits, nil
}

type stubProjectsRepo struct {
	projects.RepositoryPort
	hits []projects.Project
}

func (s *stubProjectsRepo) Search(ctx context.Context, query string, limit int) ([]projects.Project, error) {
	return s.hits, nil
}

type stubTasksRepo struct {
	tasks.RepositoryPort
	hits []tasks.Task
}

func (s *stubTasksRepo) Search(ctx context.Context, query string, limit int) ([]tasks.Task, error) {
	return s.hits, nil
}

func newSearchService(postsRepo *stubPostsRepo) *Service {
	return NewService(
		posts.NewService(postsRepo),
		users.NewService(&stubUsersRepo{hits: []users.User{{ID: 2, Username: "dana", Email: "dana@corp.local"}}}),
		projects.NewService(&stubProjectsRepo{hits: []projects.Project{{ID: 3, Name: "Atlas"}}}),
		tasks.NewService(&stubTasksRepo{hits: []tasks.Task{{ID: 4, Title: "Review"}}}, nil),
	)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "atlas", Normalize("  atlas \n"))
	// Decomposed e + combining acute composes to a single rune.
	require.Equal(t, "café", Normalize("café"))
	require.Equal(t, "", Normalize("   "))
}

func TestQueryFansOutToAllSources(t *testing.T) {
	svc := newSearchService(&stubPostsRepo{hits: []posts.Post{{ID: 1, Title: "Atlas launch"}}})

	results, err := svc.Query(context.Background(), "atlas", nil)
	require.NoError(t, err)
	require.Len(t, results.Posts, 1)
	require.Len(t, results.Users, 1)
	require.Len(t, results.Projects, 1)
	require.Len(t, results.Tasks, 1)
	require.Equal(t, "dana", results.Users[0].Username)
}

func TestQueryFiltersSources(t *testing.T) {
	svc := newSearchService(&stubPostsRepo{hits: []posts.Post{{ID: 1, Title: "Atlas launch"}}})

	results, err := svc.Query(context.Background(), "atlas", []string{SourcePosts})
	require.NoError(t, err)
	require.Len(t, results.Posts, 1)
	require.Empty(t, results.Users)
	require.Empty(t, results.Projects)
	require.Empty(t, results.Tasks)
}

func TestQueryPropagatesBackendFailure(t *testing.T) {
	svc := newSearchService(&stubPostsRepo{err: errors.New("index offline")})

	_, err := svc.Query(context.Background(), "atlas", nil)
	require.Error(t, err)
}

func TestHandlerRejectsEmptyQuery(t *testing.T) {
	svc := newSearchService(&stubPostsRepo{})
	handler := NewHandler(nil, svc)

	r := chi.NewRouter()
	r.Route("/api/search", handler.MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search?q=%20%20", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Validation failed")
}
