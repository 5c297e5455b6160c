package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intralink/intralink/internal/shared"
)

// Repository provides PostgreSQL backed persistence for roles and
// user-role assignments.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RoleNames returns the full set of role names assigned to a user, ordered
// by assignment time. Always a fresh query, never cached.
func (r *Repository) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.assigned_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListRoles returns all roles ordered by id.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, department_id, created_at, updated_at
		FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.DepartmentID, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, name string, departmentID *int64) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, department_id)
		VALUES ($1, $2)
		RETURNING id, name, department_id, created_at, updated_at`,
		name, departmentID,
	).Scan(&role.ID, &role.Name, &role.DepartmentID, &role.CreatedAt, &role.UpdatedAt)
	if isUniqueViolation(err) {
		return Role{}, shared.ErrDuplicate
	}
	return role, err
}

// DeleteRole removes a role and its assignments.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AssignRole links a role to a user. Re-assigning is a no-op.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING`, userID, roleID)
	return err
}

// RevokeRole removes a user-role assignment.
func (r *Repository) RevokeRole(ctx context.Context, userID, roleID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UserRoles lists assignments for one user.
func (r *Repository) UserRoles(ctx context.Context, userID int64) ([]UserRole, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, role_id, assigned_at
		FROM user_roles WHERE user_id = $1 ORDER BY assigned_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []UserRole
	for rows.Next() {
		var ur UserRole
		if err := rows.Scan(&ur.UserID, &ur.RoleID, &ur.AssignedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, ur)
	}
	return assignments, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
