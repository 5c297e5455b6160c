// Package notifications implements per-user in-app notifications.
package notifications

import "time"

// Notification kinds produced by the resource services.
const (
	KindComment      = "comment"
	KindReaction     = "reaction"
	KindTaskAssigned = "task_assigned"
)

// Notification is one delivery row.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ActorID   int64      `json:"actor_id"`
	Kind      string     `json:"kind"`
	RefType   string     `json:"ref_type"`
	RefID     int64      `json:"ref_id"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}
