package departments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

// List returns a page of departments plus the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Department, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, manager_id, created_at, updated_at
		FROM departments ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

// Get loads one department.
func (r *Repository) Get(ctx context.Context, id int64) (Department, error) {
	var d Department
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, manager_id, created_at, updated_at
		FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, shared.ErrNotFound
	}
	return d, err
}

// Create inserts a new department.
func (r *Repository) Create(ctx context.Context, name, description string, managerID *int64) (Department, error) {
	var d Department
	err := r.pool.QueryRow(ctx, `
		INSERT INTO departments (name, description, manager_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, manager_id, created_at, updated_at`,
		name, description, managerID,
	).Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	if isUniqueViolation(err) {
		return Department{}, shared.ErrDuplicate
	}
	return d, err
}

// Update patches name/description/manager.
func (r *Repository) Update(ctx context.Context, id int64, name, description *string, managerID *int64) (Department, error) {
	var d Department
	err := r.pool.QueryRow(ctx, `
		UPDATE departments SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			manager_id = COALESCE($4, manager_id),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, manager_id, created_at, updated_at`,
		id, name, description, managerID,
	).Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, shared.ErrNotFound
	}
	if isUniqueViolation(err) {
		return Department{}, shared.ErrDuplicate
	}
	return d, err
}

// Delete removes a department.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
