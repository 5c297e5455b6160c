package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
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

const taskColumns = `id, project_id, title, description, assignee_id, status, due_date, created_by, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, shared.ErrNotFound
	}
	return t, err
}

// List returns a page of tasks, filtered by project, assignee or status.
func (r *Repository) List(ctx context.Context, projectID, assigneeID *int64, status string, limit, offset int) ([]Task, int, error) {
	where := ` WHERE TRUE`
	args := []any{}
	if projectID != nil {
		args = append(args, *projectID)
		where += fmt.Sprintf(` AND project_id = $%d`, len(args))
	}
	if assigneeID != nil {
		args = append(args, *assigneeID)
		where += fmt.Sprintf(` AND assignee_id = $%d`, len(args))
	}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// Get loads one task.
func (r *Repository) Get(ctx context.Context, id int64) (Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// Create inserts a new task.
func (r *Repository) Create(ctx context.Context, projectID int64, title, description string, assigneeID *int64, dueDate *time.Time, createdBy int64) (Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description, assignee_id, status, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		projectID, title, description, assigneeID, StatusTodo, dueDate, createdBy)
	return scanTask(row)
}

// Update patches task fields.
func (r *Repository) Update(ctx context.Context, id int64, title, description, status *string, assigneeID *int64, dueDate *time.Time) (Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			assignee_id = COALESCE($5, assignee_id),
			due_date = COALESCE($6, due_date),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+taskColumns,
		id, title, description, status, assigneeID, dueDate)
	return scanTask(row)
}

// Delete removes a task.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Search finds tasks matching a query, used by global search.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC LIMIT $2`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
