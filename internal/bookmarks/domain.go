// Package bookmarks lets users save posts for later.
package bookmarks

import "time"

// Bookmark joins a user to a saved post. Listing embeds the post title
// so clients can render without a second fetch.
type Bookmark struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	PostTitle string    `json:"post_title"`
	CreatedAt time.Time `json:"created_at"`
}
