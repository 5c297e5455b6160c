package bookmarks

import (
	"context"

	"github.com/intralink/intralink/internal/shared"
)

// RepositoryPort defines data access methods for bookmarks.
type RepositoryPort interface {
	Add(ctx context.Context, userID, postID int64) error
	Remove(ctx context.Context, userID, postID int64) error
	List(ctx context.Context, userID int64, limit, offset int) ([]Bookmark, int, error)
}

// Service handles bookmark business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Add saves a post. Idempotent.
func (s *Service) Add(ctx context.Context, userID, postID int64) error {
	return s.repo.Add(ctx, userID, postID)
}

// Remove drops a saved post.
func (s *Service) Remove(ctx context.Context, userID, postID int64) error {
	return s.repo.Remove(ctx, userID, postID)
}

// List returns a page of the user's saved posts.
func (s *Service) List(ctx context.Context, userID int64, page, limit int) ([]Bookmark, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, userID, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}
