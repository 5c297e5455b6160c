package departments

import (
	"context"
	"strings"

	"github.com/intralink/intralink/internal/shared"
)

// RepositoryPort defines data access methods for departments.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Department, int, error)
	Get(ctx context.Context, id int64) (Department, error)
	Create(ctx context.Context, name, description string, managerID *int64) (Department, error)
	Update(ctx context.Context, id int64, name, description *string, managerID *int64) (Department, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles department business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of departments.
func (s *Service) List(ctx context.Context, page, limit int) ([]Department, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// Get loads one department.
func (s *Service) Get(ctx context.Context, id int64) (Department, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a department after trimming the name.
func (s *Service) Create(ctx context.Context, name, description string, managerID *int64) (Department, error) {
	return s.repo.Create(ctx, strings.TrimSpace(name), strings.TrimSpace(description), managerID)
}

// Update patches one department.
func (s *Service) Update(ctx context.Context, id int64, name, description *string, managerID *int64) (Department, error) {
	return s.repo.Update(ctx, id, name, description, managerID)
}

// Delete removes one department.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
