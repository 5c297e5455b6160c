package notifications

import (
	"context"

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

// CreateBatch inserts one notification row per recipient.
func (r *Repository) CreateBatch(ctx context.Context, userIDs []int64, actorID int64, kind, refType string, refID int64) error {
	batch := &pgx.Batch{}
	for _, userID := range userIDs {
		if userID == actorID {
			continue // nobody needs a notification about their own action
		}
		batch.Queue(`
			INSERT INTO notifications (user_id, actor_id, kind, ref_type, ref_id)
			VALUES ($1, $2, $3, $4, $5)`,
			userID, actorID, kind, refType, refID)
	}
	if batch.Len() == 0 {
		return nil
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

// List returns a page of notifications for one user, newest first.
func (r *Repository) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	where := ` WHERE user_id = $1`
	if unreadOnly {
		where += ` AND read_at IS NULL`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, actor_id, kind, ref_type, ref_id, read_at, created_at
		FROM notifications`+where+`
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &n.Kind, &n.RefType, &n.RefID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// MarkRead stamps one notification. Scoped by user so nobody can read
// another user's rows.
func (r *Repository) MarkRead(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead stamps every unread notification for one user.
func (r *Repository) MarkAllRead(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read_at = NOW()
		WHERE user_id = $1 AND read_at IS NULL`, userID)
	return err
}

// UnreadCount counts unread rows for one user.
func (r *Repository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	return count, err
}

// UsersWithUnread lists distinct users holding unread notifications.
func (r *Repository) UsersWithUnread(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT user_id FROM notifications WHERE read_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
