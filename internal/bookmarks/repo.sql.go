package bookmarks

import (
	"context"

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

// Add saves a post for a user. Saving twice is a no-op.
func (r *Repository) Add(ctx context.Context, userID, postID int64) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO bookmarks (user_id, post_id)
		SELECT $1, $2
		WHERE EXISTS (SELECT 1 FROM posts WHERE id = $2 AND deleted_at IS NULL)
		ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either already bookmarked (fine) or the post is gone.
		var exists bool
		if err := r.pool.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL)`, postID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}
	}
	return nil
}

// Remove drops a saved post.
func (r *Repository) Remove(ctx context.Context, userID, postID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns a page of the user's saved posts, newest first. Posts
// soft deleted after being saved drop out of the listing.
func (r *Repository) List(ctx context.Context, userID int64, limit, offset int) ([]Bookmark, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM bookmarks b JOIN posts p ON p.id = b.post_id
		WHERE b.user_id = $1 AND p.deleted_at IS NULL`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.user_id, b.post_id, p.title, b.created_at
		FROM bookmarks b JOIN posts p ON p.id = b.post_id
		WHERE b.user_id = $1 AND p.deleted_at IS NULL
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.PostID, &b.PostTitle, &b.CreatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}
