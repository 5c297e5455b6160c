package tasks

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/shared"
)

// Handler wires HTTP endpoints for tasks.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: httpx.NewValidator()}
}

// MountRoutes registers task routes. All routes sit behind the
// authentication gate; any signed-in user may manage tasks.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTaskRequest struct {
	ProjectID   int64      `json:"project_id" validate:"required,gt=0"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	AssigneeID  *int64     `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID  *int64     `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r)
	status := r.URL.Query().Get("status")
	projectID := queryID(r, "project_id")
	assigneeID := queryID(r, "assignee_id")
	list, pagination, err := h.service.List(r.Context(), projectID, assigneeID, status, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "tasks", list, pagination)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Task not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", task)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	var req createTaskRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	task, err := h.service.Create(r.Context(), req.ProjectID, req.Title, req.Description, req.AssigneeID, req.DueDate, principal.ID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Task created", task)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	var req updateTaskRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	task, err := h.service.Update(r.Context(), id, req.Title, req.Description, req.Status, req.AssigneeID, req.DueDate, principal.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Task not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Task updated", task)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Task not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Task deleted", nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid task ID"))
		return 0, false
	}
	return id, true
}

func queryID(r *http.Request, name string) *int64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
