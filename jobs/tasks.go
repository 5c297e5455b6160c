// Package jobs defines the background task types processed by the worker
// binary and the client used by services to enqueue them.
package jobs

import (
	"context"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNotifyFanout delivers in-app notifications to a set of users.
	TaskNotifyFanout = "notify:fanout"
	// TaskDigestDaily summarizes unread notifications once a day.
	TaskDigestDaily = "digest:daily"
)

// NotifyPayload describes one notification fan-out.
type NotifyPayload struct {
	UserIDs []int64 `json:"user_ids"`
	ActorID int64   `json:"actor_id"`
	Kind    string  `json:"kind"`
	RefType string  `json:"ref_type"`
	RefID   int64   `json:"ref_id"`
}

// NewNotifyTask constructs an Asynq task for a notification fan-out.
func NewNotifyTask(payload NotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotifyFanout, data), nil
}

// NewDigestTask constructs the daily digest task.
func NewDigestTask() *asynq.Task {
	return asynq.NewTask(TaskDigestDaily, nil)
}

// NotificationWriter persists notification rows for a fan-out.
type NotificationWriter interface {
	CreateBatch(ctx context.Context, userIDs []int64, actorID int64, kind, refType string, refID int64) error
}

// NewNotifyHandler builds the handler for TaskNotifyFanout.
func NewNotifyHandler(writer NotificationWriter, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload NotifyPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if len(payload.UserIDs) == 0 {
			return nil
		}
		if err := writer.CreateBatch(ctx, payload.UserIDs, payload.ActorID, payload.Kind, payload.RefType, payload.RefID); err != nil {
			return err
		}
		if logger != nil {
			logger.Info("notification fan-out delivered",
				slog.Int("recipients", len(payload.UserIDs)),
				slog.String("kind", payload.Kind))
		}
		return nil
	}
}

// DigestSource lists users holding unread notifications.
type DigestSource interface {
	UsersWithUnread(ctx context.Context) ([]int64, error)
}

// NewDigestHandler builds the handler for TaskDigestDaily.
func NewDigestHandler(source DigestSource, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		userIDs, err := source.UsersWithUnread(ctx)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Info("daily digest computed", slog.Int("users_with_unread", len(userIDs)))
		}
		return nil
	}
}
