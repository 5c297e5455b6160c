package departments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/rbac"
	"github.com/intralink/intralink/internal/shared"
)

// Handler wires HTTP endpoints for departments.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validate  *validator.Validate
	authorize shared.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authorize shared.Authorizer) *Handler {
	return &Handler{logger: logger, service: service, validate: httpx.NewValidator(), authorize: authorize}
}

// MountRoutes registers department routes. Reads are open to any
// authenticated user; mutations need admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(rbac.LabelAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createDepartmentRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	ManagerID   *int64 `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
}

type updateDepartmentRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	ManagerID   *int64  `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r)
	list, pagination, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "departments", list, pagination)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	dept, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Department not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", dept)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDepartmentRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	dept, err := h.service.Create(r.Context(), req.Name, req.Description, req.ManagerID)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.RespondError(w, h.logger, httpx.Conflict("Department already exists"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Department created", dept)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	var req updateDepartmentRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	dept, err := h.service.Update(r.Context(), id, req.Name, req.Description, req.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.RespondError(w, h.logger, httpx.NotFound("Department not found"))
		case errors.Is(err, shared.ErrDuplicate):
			httpx.RespondError(w, h.logger, httpx.Conflict("Department already exists"))
		default:
			httpx.RespondError(w, h.logger, err)
		}
		return
	}
	httpx.OK(w, "Department updated", dept)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Department not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Department deleted", nil)
}

func pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, logger, httpx.E(http.StatusBadRequest, "Invalid ID"))
		return 0, false
	}
	return id, true
}
