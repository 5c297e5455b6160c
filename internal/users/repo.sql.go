package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intralink/intralink/internal/shared"
)

// userColumns joins the first assigned role for the denormalized
// role/department pair on the account row.
const userColumns = `
	u.id, u.email, u.username, u.password_hash, u.status, u.is_system_admin,
	u.avatar_path, r.name, r.department_id, u.created_at, u.updated_at`

const userJoin = `
	FROM users u
	LEFT JOIN LATERAL (
		SELECT ro.name, ro.department_id
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = u.id
		ORDER BY ur.assigned_at
		LIMIT 1
	) r ON TRUE`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Status, &u.IsSystemAdmin,
		&u.AvatarPath, &u.RoleName, &u.RoleDepartmentID, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID loads one user with the denormalized first-role columns.
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+userJoin+` WHERE u.id = $1`, id)
	return scanUser(row)
}

// FindByEmail loads one user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+userJoin+` WHERE u.email = $1`, email)
	return scanUser(row)
}

// List returns a page of users, optionally filtered by a name/email search.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]User, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE u.username ILIKE $1 OR u.email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + userJoin + where +
		fmt.Sprintf(` ORDER BY u.id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Status, &u.IsSystemAdmin,
			&u.AvatarPath, &u.RoleName, &u.RoleDepartmentID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// Search finds active users matching a query, used by global search.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+userJoin+`
		WHERE u.status = $1 AND (u.username ILIKE $2 OR u.email ILIKE $2)
		ORDER BY u.username LIMIT $3`, StatusActive, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Status, &u.IsSystemAdmin,
			&u.AvatarPath, &u.RoleName, &u.RoleDepartmentID, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, email, username, passwordHash string) (*User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		email, username, passwordHash, StatusActive,
	).Scan(&id)
	if isUniqueViolation(err) {
		return nil, shared.ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// UpdateProfile updates mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, username *string, email *string) (*User, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			username = COALESCE($2, username),
			email = COALESCE($3, email),
			updated_at = NOW()
		WHERE id = $1`, id, username, email)
	if isUniqueViolation(err) {
		return nil, shared.ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetStatus flips the account status. Accounts are never deleted physically.
func (r *Repository) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetAvatar stores the avatar object path.
func (r *Repository) SetAvatar(ctx context.Context, id int64, path string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET avatar_path = $2, updated_at = NOW() WHERE id = $1`, id, path)
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
