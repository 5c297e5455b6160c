package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks from the API process.
type Client struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewClient constructs a Client talking to the given Redis broker.
func NewClient(redisAddr string, logger *slog.Logger) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
		logger: logger,
	}
}

// EnqueueNotify queues a notification fan-out. Failures are logged, not
// returned to the caller: losing one in-app notification must never fail
// the write that triggered it.
func (c *Client) EnqueueNotify(ctx context.Context, payload NotifyPayload) error {
	task, err := NewNotifyTask(payload)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		if c.logger != nil {
			c.logger.Warn("enqueue notify", slog.Any("error", err))
		}
		return err
	}
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}
