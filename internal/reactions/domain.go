// Package reactions implements per-user reactions on posts and comments.
package reactions

import "time"

// Reaction target types.
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Reaction kinds accepted on the wire.
var Kinds = []string{"like", "celebrate", "insightful", "curious"}

// Reaction records one user's reaction to one target. A user holds at
// most one reaction per target; changing the kind replaces it.
type Reaction struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	TargetType string    `json:"target_type"`
	TargetID   int64     `json:"target_id"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}

// Count is the aggregate per kind for one target.
type Count struct {
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}

// Summary bundles aggregates with the caller's own reaction, if any.
type Summary struct {
	Counts []Count `json:"counts"`
	Own    *string `json:"own"`
}
