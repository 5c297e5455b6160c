package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/intralink/intralink/internal/auth"
	"github.com/intralink/intralink/internal/bookmarks"
	"github.com/intralink/intralink/internal/comments"
	"github.com/intralink/intralink/internal/departments"
	"github.com/intralink/intralink/internal/notifications"
	"github.com/intralink/intralink/internal/observability"
	"github.com/intralink/intralink/internal/posts"
	"github.com/intralink/intralink/internal/projects"
	"github.com/intralink/intralink/internal/rbac"
	"github.com/intralink/intralink/internal/reactions"
	"github.com/intralink/intralink/internal/search"
	"github.com/intralink/intralink/internal/tasks"
	"github.com/intralink/intralink/internal/teams"
	"github.com/intralink/intralink/internal/uploads"
	"github.com/intralink/intralink/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config
	Gate   *auth.Gate

	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	RolesHandler         *rbac.Handler
	DepartmentsHandler   *departments.Handler
	TeamsHandler         *teams.Handler
	ProjectsHandler      *projects.Handler
	TasksHandler         *tasks.Handler
	PostsHandler         *posts.Handler
	CommentsHandler      *comments.Handler
	ReactionsHandler     *reactions.Handler
	BookmarksHandler     *bookmarks.Handler
	NotificationsHandler *notifications.Handler
	SearchHandler        *search.Handler
	Uploads              *uploads.Store

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything under /api except
// /api/auth/login requires a valid bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.Gate.Authenticator)

			r.Route("/users", params.UsersHandler.MountRoutes)
			r.Route("/roles", params.RolesHandler.MountRoutes)
			r.Route("/departments", params.DepartmentsHandler.MountRoutes)
			r.Route("/teams", params.TeamsHandler.MountRoutes)
			r.Route("/projects", params.ProjectsHandler.MountRoutes)
			r.Route("/tasks", params.TasksHandler.MountRoutes)
			r.Route("/posts", func(r chi.Router) {
				params.PostsHandler.MountRoutes(r)
				params.CommentsHandler.MountPostRoutes(r)
				params.ReactionsHandler.MountPostRoutes(r)
			})
			r.Route("/comments", func(r chi.Router) {
				params.CommentsHandler.MountRoutes(r)
				params.ReactionsHandler.MountCommentRoutes(r)
			})
			r.Route("/bookmarks", params.BookmarksHandler.MountRoutes)
			r.Route("/notifications", params.NotificationsHandler.MountRoutes)
			r.Route("/search", params.SearchHandler.MountRoutes)

			if params.Uploads != nil {
				r.Method(http.MethodGet, "/files/*", params.Uploads)
			}
		})
	})

	return r
}
