// Package search fans a query out across posts, users, projects and
// tasks and merges the results into one response.
package search

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/intralink/intralink/internal/posts"
	"github.com/intralink/intralink/internal/projects"
	"github.com/intralink/intralink/internal/tasks"
	"github.com/intralink/intralink/internal/users"
)

// Sources a global search draws from.
const (
	SourcePosts    = "posts"
	SourceUsers    = "users"
	SourceProjects = "projects"
	SourceTasks    = "tasks"
)

const perSourceLimit = 10

// UserHit is the slimmed directory entry returned by search. The full
// user row never leaves the users package.
type UserHit struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	AvatarPath *string `json:"avatar_path,omitempty"`
	RoleName   *string `json:"role_name,omitempty"`
}

// Results groups hits per source.
type Results struct {
	Posts    []posts.Post       `json:"posts"`
	Users    []UserHit          `json:"users"`
	Projects []projects.Project `json:"projects"`
	Tasks    []tasks.Task       `json:"tasks"`
}

// Service coordinates the fan-out.
type Service struct {
	posts    *posts.Service
	users    *users.Service
	projects *projects.Service
	tasks    *tasks.Service
}

// NewService builds a Service instance.
func NewService(p *posts.Service, u *users.Service, pr *projects.Service, t *tasks.Service) *Service {
	return &Service{posts: p, users: u, projects: pr, tasks: t}
}

// Normalize canonicalizes a raw query: NFC composition plus whitespace
// trimming, so visually identical inputs hit the same index terms.
func Normalize(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

// Query runs the fan-out. Sources filters which backends run; empty
// means all. Any backend error fails the whole search.
func (s *Service) Query(ctx context.Context, query string, sources []string) (Results, error) {
	include := func(name string) bool {
		if len(sources) == 0 {
			return true
		}
		for _, src := range sources {
			if src == name {
				return true
			}
		}
		return false
	}

	var results Results
	g, ctx := errgroup.WithContext(ctx)
	if include(SourcePosts) {
		g.Go(func() error {
			hits, err := s.posts.Search(ctx, query, perSourceLimit)
			results.Posts = hits
			return err
		})
	}
	if include(SourceUsers) {
		g.Go(func() error {
			hits, err := s.users.Search(ctx, query, perSourceLimit)
			if err != nil {
				return err
			}
			results.Users = toUserHits(hits)
			return nil
		})
	}
	if include(SourceProjects) {
		g.Go(func() error {
			hits, err := s.projects.Search(ctx, query, perSourceLimit)
			results.Projects = hits
			return err
		})
	}
	if include(SourceTasks) {
		g.Go(func() error {
			hits, err := s.tasks.Search(ctx, query, perSourceLimit)
			results.Tasks = hits
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}
	if results.Posts == nil {
		results.Posts = []posts.Post{}
	}
	if results.Users == nil {
		results.Users = []UserHit{}
	}
	if results.Projects == nil {
		results.Projects = []projects.Project{}
	}
	if results.Tasks == nil {
		results.Tasks = []tasks.Task{}
	}
	return results, nil
}

func toUserHits(list []users.User) []UserHit {
	hits := make([]UserHit, 0, len(list))
	for _, u := range list {
		hits = append(hits, UserHit{
			ID:         u.ID,
			Username:   u.Username,
			Email:      u.Email,
			AvatarPath: u.AvatarPath,
			RoleName:   u.RoleName,
		})
	}
	return hits
}
