package projects

import (
	"context"
	"strings"

	"github.com/intralink/intralink/internal/shared"
)

// RepositoryPort defines data access methods for projects.
type RepositoryPort interface {
	List(ctx context.Context, status string, departmentID *int64, limit, offset int) ([]Project, int, error)
	Get(ctx context.Context, id int64) (Project, error)
	Create(ctx context.Context, name, description string, ownerID int64, departmentID *int64) (Project, error)
	Update(ctx context.Context, id int64, name, description, status *string, departmentID *int64) (Project, error)
	SoftDelete(ctx context.Context, id int64) error
	Members(ctx context.Context, projectID int64) ([]Member, error)
	AddMember(ctx context.Context, projectID, userID int64) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
	Search(ctx context.Context, query string, limit int) ([]Project, error)
}

// Service handles project business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of projects.
func (s *Service) List(ctx context.Context, status string, departmentID *int64, page, limit int) ([]Project, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, status, departmentID, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// Get loads one project.
func (s *Service) Get(ctx context.Context, id int64) (Project, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a project owned by the caller.
func (s *Service) Create(ctx context.Context, name, description string, ownerID int64, departmentID *int64) (Project, error) {
	return s.repo.Create(ctx, strings.TrimSpace(name), strings.TrimSpace(description), ownerID, departmentID)
}

// Update patches one project.
func (s *Service) Update(ctx context.Context, id int64, name, description, status *string, departmentID *int64) (Project, error) {
	return s.repo.Update(ctx, id, name, description, status, departmentID)
}

// Delete soft-deletes one project.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

// Members lists project members.
func (s *Service) Members(ctx context.Context, projectID int64) ([]Member, error) {
	if _, err := s.repo.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.Members(ctx, projectID)
}

// AddMember enrolls a user.
func (s *Service) AddMember(ctx context.Context, projectID, userID int64) error {
	if _, err := s.repo.Get(ctx, projectID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, projectID, userID)
}

// RemoveMember drops a user.
func (s *Service) RemoveMember(ctx context.Context, projectID, userID int64) error {
	return s.repo.RemoveMember(ctx, projectID, userID)
}

// Search finds projects for the global search fan-out.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Project, error) {
	return s.repo.Search(ctx, query, limit)
}
