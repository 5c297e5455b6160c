// Package comments implements threaded comments on posts.
package comments

import "time"

// Comment is one thread entry. Replies nest through ParentID; a soft
// deleted comment keeps its place in the tree so replies stay attached.
type Comment struct {
	ID             int64      `json:"id"`
	PostID         int64      `json:"post_id"`
	AuthorID       int64      `json:"author_id"`
	AuthorUsername string     `json:"author_username"`
	ParentID       *int64     `json:"parent_id"`
	Body           string     `json:"body"`
	Deleted        bool       `json:"deleted"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"`

	Replies []*Comment `json:"replies"`
}
