// Package posts implements the intranet feed: department scoped posts
// with attachments, pinning and view counting.
package posts

import "time"

// Post is one feed entry. Author fields are denormalized from users at
// read time. Deleted posts stay in the table with deleted_at set.
type Post struct {
	ID             int64      `json:"id"`
	AuthorID       int64      `json:"author_id"`
	AuthorUsername string     `json:"author_username"`
	DepartmentID   *int64     `json:"department_id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	AttachmentPath *string    `json:"attachment_path,omitempty"`
	Pinned         bool       `json:"pinned"`
	ViewCount      int64      `json:"view_count"`
	CommentCount   int64      `json:"comment_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`
}
