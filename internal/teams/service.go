package teams

import (
	"context"
	"strings"

	"github.com/intralink/intralink/internal/shared"
)

// RepositoryPort defines data access methods for teams.
type RepositoryPort interface {
	List(ctx context.Context, departmentID *int64, limit, offset int) ([]Team, int, error)
	Get(ctx context.Context, id int64) (Team, error)
	Create(ctx context.Context, departmentID int64, name, description string, leadID *int64) (Team, error)
	Update(ctx context.Context, id int64, name, description *string, leadID *int64) (Team, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, teamID int64) ([]Member, error)
	AddMember(ctx context.Context, teamID, userID int64) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

// Service handles team business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of teams.
func (s *Service) List(ctx context.Context, departmentID *int64, page, limit int) ([]Team, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, departmentID, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// Get loads one team.
func (s *Service) Get(ctx context.Context, id int64) (Team, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a team.
func (s *Service) Create(ctx context.Context, departmentID int64, name, description string, leadID *int64) (Team, error) {
	return s.repo.Create(ctx, departmentID, strings.TrimSpace(name), strings.TrimSpace(description), leadID)
}

// Update patches one team.
func (s *Service) Update(ctx context.Context, id int64, name, description *string, leadID *int64) (Team, error) {
	return s.repo.Update(ctx, id, name, description, leadID)
}

// Delete removes one team.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Members lists a team's members.
func (s *Service) Members(ctx context.Context, teamID int64) ([]Member, error) {
	// Ensure the team exists so a missing team is a 404, not an empty list.
	if _, err := s.repo.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.repo.Members(ctx, teamID)
}

// AddMember joins a user to a team, idempotently.
func (s *Service) AddMember(ctx context.Context, teamID, userID int64) error {
	if _, err := s.repo.Get(ctx, teamID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, teamID, userID)
}

// RemoveMember drops a user from a team.
func (s *Service) RemoveMember(ctx context.Context, teamID, userID int64) error {
	return s.repo.RemoveMember(ctx, teamID, userID)
}
