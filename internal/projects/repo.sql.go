package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intralink/intralink/internal/platform/db"
	"github.com/intralink/intralink/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, name, description, owner_id, department_id, status, created_at, updated_at, deleted_at`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.DepartmentID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, shared.ErrNotFound
	}
	return p, err
}

// List returns a page of live projects, optionally filtered by status or
// department.
func (r *Repository) List(ctx context.Context, status string, departmentID *int64, limit, offset int) ([]Project, int, error) {
	where := ` WHERE deleted_at IS NULL`
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if departmentID != nil {
		args = append(args, *departmentID)
		where += fmt.Sprintf(` AND department_id = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.DepartmentID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Get loads one live project.
func (r *Repository) Get(ctx context.Context, id int64) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanProject(row)
}

// Create inserts a new project and enrolls the owner as first member,
// atomically.
func (r *Repository) Create(ctx context.Context, name, description string, ownerID int64, departmentID *int64) (Project, error) {
	var p Project
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO projects (name, description, owner_id, department_id, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+projectColumns,
			name, description, ownerID, departmentID, StatusActive)
		var err error
		if p, err = scanProject(row); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`, p.ID, ownerID)
		return err
	})
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

// Update patches project fields.
func (r *Repository) Update(ctx context.Context, id int64, name, description, status *string, departmentID *int64) (Project, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE projects SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			department_id = COALESCE($5, department_id),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+projectColumns,
		id, name, description, status, departmentID)
	return scanProject(row)
}

// SoftDelete stamps deleted_at. The row stays for audit.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projects SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Members lists project members with usernames.
func (r *Repository) Members(ctx context.Context, projectID int64) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pm.project_id, pm.user_id, u.username, pm.added_at
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.added_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Username, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember enrolls a user, idempotently.
func (r *Repository) AddMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING`, projectID, userID)
	return err
}

// RemoveMember drops a user from the project.
func (r *Repository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Search finds live projects matching a query, used by global search.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE deleted_at IS NULL AND (name ILIKE $1 OR description ILIKE $1)
		ORDER BY created_at DESC LIMIT $2`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.DepartmentID, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
