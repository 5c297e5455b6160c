package posts

import (
	"context"
	"errors"
	"fmt"

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

const postColumns = `
	p.id, p.author_id, u.username, p.department_id, p.title, p.body,
	p.attachment_path, p.pinned, p.view_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND c.deleted_at IS NULL),
	p.created_at, p.updated_at`

const postJoin = ` FROM posts p JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorUsername, &p.DepartmentID, &p.Title, &p.Body,
		&p.AttachmentPath, &p.Pinned, &p.ViewCount, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, shared.ErrNotFound
	}
	return p, err
}

// List returns a page of live posts, pinned entries first.
func (r *Repository) List(ctx context.Context, departmentID, authorID *int64, limit, offset int) ([]Post, int, error) {
	where := ` WHERE p.deleted_at IS NULL`
	args := []any{}
	if departmentID != nil {
		args = append(args, *departmentID)
		where += fmt.Sprintf(` AND p.department_id = $%d`, len(args))
	}
	if authorID != nil {
		args = append(args, *authorID)
		where += fmt.Sprintf(` AND p.author_id = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+postJoin+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + postJoin + where +
		fmt.Sprintf(` ORDER BY p.pinned DESC, p.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	list, err := collectPosts(rows)
	return list, total, err
}

// Get loads one live post.
func (r *Repository) Get(ctx context.Context, id int64) (Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+postJoin+` WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	return scanPost(row)
}

// Create inserts a post and returns it with author fields resolved.
func (r *Repository) Create(ctx context.Context, authorID int64, departmentID *int64, title, body string, attachmentPath *string) (Post, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, department_id, title, body, attachment_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		authorID, departmentID, title, body, attachmentPath).Scan(&id)
	if err != nil {
		return Post{}, err
	}
	return r.Get(ctx, id)
}

// Update patches post fields.
func (r *Repository) Update(ctx context.Context, id int64, title, body *string, departmentID *int64) (Post, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET
			title = COALESCE($2, title),
			body = COALESCE($3, body),
			department_id = COALESCE($4, department_id),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		id, title, body, departmentID)
	if err != nil {
		return Post{}, err
	}
	if tag.RowsAffected() == 0 {
		return Post{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// SetPinned flips the pinned flag.
func (r *Repository) SetPinned(ctx context.Context, id int64, pinned bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET pinned = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, pinned)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter without touching updated_at.
func (r *Repository) IncrementViews(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE posts SET view_count = view_count + 1
		WHERE id = $1 AND deleted_at IS NULL`, id)
	return err
}

// SoftDelete marks a post deleted. Comments under it stay readable
// through direct links but the post disappears from listings.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Search finds live posts matching a query, used by global search.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+postJoin+`
		WHERE p.deleted_at IS NULL AND (p.title ILIKE $1 OR p.body ILIKE $1)
		ORDER BY p.created_at DESC LIMIT $2`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	var list []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorUsername, &p.DepartmentID, &p.Title, &p.Body,
			&p.AttachmentPath, &p.Pinned, &p.ViewCount, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
