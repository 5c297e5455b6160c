package posts

import (
	"context"
	"strings"

	"github.com/intralink/intralink/internal/shared"
)

// RepositoryPort defines data access methods for posts.
type RepositoryPort interface {
	List(ctx context.Context, departmentID, authorID *int64, limit, offset int) ([]Post, int, error)
	Get(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, authorID int64, departmentID *int64, title, body string, attachmentPath *string) (Post, error)
	Update(ctx context.Context, id int64, title, body *string, departmentID *int64) (Post, error)
	SetPinned(ctx context.Context, id int64, pinned bool) error
	IncrementViews(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]Post, error)
}

// Service handles post business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of posts.
func (s *Service) List(ctx context.Context, departmentID, authorID *int64, page, limit int) ([]Post, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, departmentID, authorID, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// Get loads one post and counts the read. The view bump is best effort;
// a failed increment never blocks the read path.
func (s *Service) Get(ctx context.Context, id int64) (Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if err := s.repo.IncrementViews(ctx, id); err == nil {
		post.ViewCount++
	}
	return post, nil
}

// Find loads one post without counting a read. Permission checks use
// this so they never inflate the view counter.
func (s *Service) Find(ctx context.Context, id int64) (Post, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a new post.
func (s *Service) Create(ctx context.Context, authorID int64, departmentID *int64, title, body string, attachmentPath *string) (Post, error) {
	return s.repo.Create(ctx, authorID, departmentID, strings.TrimSpace(title), body, attachmentPath)
}

// Update patches a post.
func (s *Service) Update(ctx context.Context, id int64, title, body *string, departmentID *int64) (Post, error) {
	return s.repo.Update(ctx, id, title, body, departmentID)
}

// SetPinned pins or unpins a post.
func (s *Service) SetPinned(ctx context.Context, id int64, pinned bool) error {
	return s.repo.SetPinned(ctx, id, pinned)
}

// Delete soft deletes a post.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

// Search finds posts for the global search fan-out.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	return s.repo.Search(ctx, query, limit)
}
