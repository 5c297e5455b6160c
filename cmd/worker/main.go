package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/intralink/intralink/internal/app"
	"github.com/intralink/intralink/internal/notifications"
	"github.com/intralink/intralink/internal/platform/cache"
	"github.com/intralink/intralink/internal/platform/db"
	"github.com/intralink/intralink/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, db.Config{DSN: cfg.PGDSN, MaxConns: cfg.PGMaxConns, ConnectTimeout: cfg.PGConnectTimeout})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cache.Config{Addr: cfg.RedisAddr, DialTimeout: cfg.RedisDialTimeout})
	if err != nil {
		logger.Warn("redis unavailable, unread counters fall back to the database", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	notificationsService := notifications.NewService(notifications.NewRepository(pool), redisClient)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:     asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:        logger,
		Notifications: notificationsService,
		Digest:        notificationsService,
		DigestCron:    cfg.DigestCron,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
