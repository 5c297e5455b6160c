package comments

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

const commentColumns = `
	c.id, c.post_id, c.author_id, u.username, c.parent_id, c.body,
	c.deleted_at, c.created_at, c.updated_at`

const commentJoin = ` FROM comments c JOIN users u ON u.id = c.author_id`

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.ParentID, &c.Body,
		&c.DeletedAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, shared.ErrNotFound
	}
	return c, err
}

// ListByPost returns every comment on a post, oldest first, including
// soft deleted ones so the service can keep reply chains intact.
func (r *Repository) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+commentJoin+`
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorUsername, &c.ParentID, &c.Body,
			&c.DeletedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Get loads one comment, deleted or not.
func (r *Repository) Get(ctx context.Context, id int64) (Comment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+commentColumns+commentJoin+` WHERE c.id = $1`, id)
	return scanComment(row)
}

// Create inserts a comment. The parent, when set, must belong to the
// same post; the check runs in SQL to avoid a read round trip.
func (r *Repository) Create(ctx context.Context, postID, authorID int64, parentID *int64, body string) (Comment, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, parent_id, body)
		SELECT $1, $2, $3, $4
		WHERE $3::bigint IS NULL
		   OR EXISTS (SELECT 1 FROM comments WHERE id = $3 AND post_id = $1 AND deleted_at IS NULL)
		RETURNING id`,
		postID, authorID, parentID, body).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, shared.ErrNotFound
	}
	if err != nil {
		return Comment{}, err
	}
	return r.Get(ctx, id)
}

// UpdateBody edits a live comment.
func (r *Repository) UpdateBody(ctx context.Context, id int64, body string) (Comment, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE comments SET body = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, body)
	if err != nil {
		return Comment{}, err
	}
	if tag.RowsAffected() == 0 {
		return Comment{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// SoftDelete tombstones a comment. The row stays so replies keep their
// parent.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE comments SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// PostAuthor resolves the author of a live post, for notifications.
func (r *Repository) PostAuthor(ctx context.Context, postID int64) (int64, error) {
	var authorID int64
	err := r.pool.QueryRow(ctx, `
		SELECT author_id FROM posts WHERE id = $1 AND deleted_at IS NULL`, postID).Scan(&authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	return authorID, err
}
