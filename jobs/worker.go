package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Worker wraps the Asynq server and the daily scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts     asynq.RedisClientOpt
	Logger        *slog.Logger
	Notifications NotificationWriter
	Digest        DigestSource
	// DigestCron overrides the schedule of the daily digest. Empty keeps
	// the 02:00 UTC default.
	DigestCron string
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskNotifyFanout, NewNotifyHandler(cfg.Notifications, cfg.Logger))
	mux.HandleFunc(TaskDigestDaily, NewDigestHandler(cfg.Digest, cfg.Logger))

	spec := cfg.DigestCron
	if spec == "" {
		spec = "0 2 * * *"
	}
	scheduler := asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(spec, NewDigestTask(), asynq.Queue(QueueDefault)); err != nil {
		return nil, err
	}

	return &Worker{server: srv, mux: mux, scheduler: scheduler, logger: cfg.Logger}, nil
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if err := w.scheduler.Start(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.scheduler.Shutdown()
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		w.scheduler.Shutdown()
		return err
	}
}
