package rbac

import (
	"context"
	"errors"
	"strings"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	RoleNames(ctx context.Context, userID int64) ([]string, error)
	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, name string, departmentID *int64) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	AssignRole(ctx context.Context, userID, roleID int64) error
	RevokeRole(ctx context.Context, userID, roleID int64) error
	UserRoles(ctx context.Context, userID int64) ([]UserRole, error)
}

// Service orchestrates role operations.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// RoleNames returns the full set of role names assigned to a user. The
// authorization gate calls this on every request; results are never cached
// so two consecutive checks for an unchanged assignment agree.
func (s *Service) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	return s.repo.RoleNames(ctx, userID)
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole inserts a new role after trimming the name.
func (s *Service) CreateRole(ctx context.Context, name string, departmentID *int64) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	return s.repo.CreateRole(ctx, name, departmentID)
}

// DeleteRole removes a role by ID.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// AssignRole links a role to a user.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) error {
	return s.repo.AssignRole(ctx, userID, roleID)
}

// RevokeRole removes a user-role assignment.
func (s *Service) RevokeRole(ctx context.Context, userID, roleID int64) error {
	return s.repo.RevokeRole(ctx, userID, roleID)
}

// UserRoles lists assignments for one user.
func (s *Service) UserRoles(ctx context.Context, userID int64) ([]UserRole, error) {
	return s.repo.UserRoles(ctx, userID)
}
