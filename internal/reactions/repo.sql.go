package reactions

import (
	"context"
	"errors"

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

// Upsert sets the caller's reaction on a target, replacing any earlier
// kind. Relies on the unique index over (user_id, target_type, target_id).
func (r *Repository) Upsert(ctx context.Context, userID int64, targetType string, targetID int64, kind string) (Reaction, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reactions (user_id, target_type, target_id, kind)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, target_type, target_id)
		DO UPDATE SET kind = EXCLUDED.kind, created_at = NOW()
		RETURNING id, user_id, target_type, target_id, kind, created_at`,
		userID, targetType, targetID, kind)
	var re Reaction
	err := row.Scan(&re.ID, &re.UserID, &re.TargetType, &re.TargetID, &re.Kind, &re.CreatedAt)
	return re, err
}

// Find returns the caller's reaction on a target.
func (r *Repository) Find(ctx context.Context, userID int64, targetType string, targetID int64) (Reaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, target_type, target_id, kind, created_at
		FROM reactions
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3`,
		userID, targetType, targetID)
	var re Reaction
	err := row.Scan(&re.ID, &re.UserID, &re.TargetType, &re.TargetID, &re.Kind, &re.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reaction{}, shared.ErrNotFound
	}
	return re, err
}

// Delete removes the caller's reaction from a target.
func (r *Repository) Delete(ctx context.Context, userID int64, targetType string, targetID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM reactions
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3`,
		userID, targetType, targetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Counts aggregates reactions per kind for a target.
func (r *Repository) Counts(ctx context.Context, targetType string, targetID int64) ([]Count, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT kind, COUNT(*)
		FROM reactions
		WHERE target_type = $1 AND target_id = $2
		GROUP BY kind
		ORDER BY kind`, targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Kind, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TargetAuthor resolves the author of a reaction target, for
// notifications. Soft deleted targets resolve to ErrNotFound.
func (r *Repository) TargetAuthor(ctx context.Context, targetType string, targetID int64) (int64, error) {
	var query string
	switch targetType {
	case TargetPost:
		query = `SELECT author_id FROM posts WHERE id = $1 AND deleted_at IS NULL`
	case TargetComment:
		query = `SELECT author_id FROM comments WHERE id = $1 AND deleted_at IS NULL`
	default:
		return 0, shared.ErrNotFound
	}
	var authorID int64
	err := r.pool.QueryRow(ctx, query, targetID).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return authorID, err
}
