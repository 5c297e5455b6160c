package teams

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

// List returns a page of teams, optionally scoped to one department.
func (r *Repository) List(ctx context.Context, departmentID *int64, limit, offset int) ([]Team, int, error) {
	where := ""
	args := []any{}
	if departmentID != nil {
		where = ` WHERE department_id = $1`
		args = append(args, *departmentID)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, department_id, name, description, lead_id, created_at, updated_at FROM teams` + where
	if departmentID != nil {
		query += ` ORDER BY name LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY name LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.DepartmentID, &t.Name, &t.Description, &t.LeadID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// Get loads one team.
func (r *Repository) Get(ctx context.Context, id int64) (Team, error) {
	var t Team
	err := r.pool.QueryRow(ctx, `
		SELECT id, department_id, name, description, lead_id, created_at, updated_at
		FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.DepartmentID, &t.Name, &t.Description, &t.LeadID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, shared.ErrNotFound
	}
	return t, err
}

// Create inserts a new team.
func (r *Repository) Create(ctx context.Context, departmentID int64, name, description string, leadID *int64) (Team, error) {
	var t Team
	err := r.pool.QueryRow(ctx, `
		INSERT INTO teams (department_id, name, description, lead_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, department_id, name, description, lead_id, created_at, updated_at`,
		departmentID, name, description, leadID,
	).Scan(&t.ID, &t.DepartmentID, &t.Name, &t.Description, &t.LeadID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return Team{}, shared.ErrDuplicate
	}
	return t, err
}

// Update patches team fields.
func (r *Repository) Update(ctx context.Context, id int64, name, description *string, leadID *int64) (Team, error) {
	var t Team
	err := r.pool.QueryRow(ctx, `
		UPDATE teams SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			lead_id = COALESCE($4, lead_id),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, department_id, name, description, lead_id, created_at, updated_at`,
		id, name, description, leadID,
	).Scan(&t.ID, &t.DepartmentID, &t.Name, &t.Description, &t.LeadID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, shared.ErrNotFound
	}
	return t, err
}

// Delete removes a team and its memberships.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Members lists a team's members with usernames.
func (r *Repository) Members(ctx context.Context, teamID int64) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tm.team_id, tm.user_id, u.username, tm.joined_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Username, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember inserts a membership, idempotently.
func (r *Repository) AddMember(ctx context.Context, teamID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, user_id) DO NOTHING`, teamID, userID)
	return err
}

// RemoveMember deletes a membership.
func (r *Repository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
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
