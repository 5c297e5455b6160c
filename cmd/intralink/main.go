package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intralink/intralink/internal/app"
	"github.com/intralink/intralink/internal/auth"
	"github.com/intralink/intralink/internal/bookmarks"
	"github.com/intralink/intralink/internal/comments"
	"github.com/intralink/intralink/internal/departments"
	"github.com/intralink/intralink/internal/notifications"
	"github.com/intralink/intralink/internal/observability"
	"github.com/intralink/intralink/internal/platform/cache"
	"github.com/intralink/intralink/internal/platform/db"
	"github.com/intralink/intralink/internal/posts"
	"github.com/intralink/intralink/internal/projects"
	"github.com/intralink/intralink/internal/rbac"
	"github.com/intralink/intralink/internal/reactions"
	"github.com/intralink/intralink/internal/search"
	"github.com/intralink/intralink/internal/tasks"
	"github.com/intralink/intralink/internal/teams"
	"github.com/intralink/intralink/internal/uploads"
	"github.com/intralink/intralink/internal/users"
	"github.com/intralink/intralink/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
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

	jobClient := jobs.NewClient(cfg.RedisAddr, logger)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	store, err := uploads.NewStore(cfg.UploadDir, cfg.UploadMaxSize)
	if err != nil {
		logger.Error("prepare upload dir", slog.Any("error", err))
		os.Exit(1)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)

	rbacRepo := rbac.NewRepository(pool)
	rbacService := rbac.NewService(rbacRepo)

	gate := auth.NewGate(logger, tokens, usersRepo, rbacRepo)
	authorize := gate.Authorize

	authService := auth.NewService(usersRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, gate)

	usersHandler := users.NewHandler(logger, usersService, rbacService, store, authorize)
	rolesHandler := rbac.NewHandler(logger, rbacService, authorize)

	departmentsService := departments.NewService(departments.NewRepository(pool))
	departmentsHandler := departments.NewHandler(logger, departmentsService, authorize)

	teamsService := teams.NewService(teams.NewRepository(pool))
	teamsHandler := teams.NewHandler(logger, teamsService, authorize)

	projectsService := projects.NewService(projects.NewRepository(pool))
	projectsHandler := projects.NewHandler(logger, projectsService, authorize)

	tasksService := tasks.NewService(tasks.NewRepository(pool), jobClient)
	tasksHandler := tasks.NewHandler(logger, tasksService)

	postsService := posts.NewService(posts.NewRepository(pool))
	postsHandler := posts.NewHandler(logger, postsService, store, authorize)

	commentsService := comments.NewService(comments.NewRepository(pool), jobClient)
	commentsHandler := comments.NewHandler(logger, commentsService)

	reactionsService := reactions.NewService(reactions.NewRepository(pool), jobClient)
	reactionsHandler := reactions.NewHandler(logger, reactionsService)

	bookmarksService := bookmarks.NewService(bookmarks.NewRepository(pool))
	bookmarksHandler := bookmarks.NewHandler(logger, bookmarksService)

	notificationsService := notifications.NewService(notifications.NewRepository(pool), redisClient)
	notificationsHandler := notifications.NewHandler(logger, notificationsService)

	searchService := search.NewService(postsService, usersService, projectsService, tasksService)
	searchHandler := search.NewHandler(logger, searchService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		Gate:   gate,

		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		RolesHandler:         rolesHandler,
		DepartmentsHandler:   departmentsHandler,
		TeamsHandler:         teamsHandler,
		ProjectsHandler:      projectsHandler,
		TasksHandler:         tasksHandler,
		PostsHandler:         postsHandler,
		CommentsHandler:      commentsHandler,
		ReactionsHandler:     reactionsHandler,
		BookmarksHandler:     bookmarksHandler,
		NotificationsHandler: notificationsHandler,
		SearchHandler:        searchHandler,
		Uploads:              store,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
