package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/shared"
)

// Handler wires HTTP endpoints for role management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validate  *validator.Validate
	authorize shared.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authorize shared.Authorizer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validate:  httpx.NewValidator(),
		authorize: authorize,
	}
}

// MountRoutes registers role routes. All role management is admin-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(LabelAdmin))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
}

type createRoleRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	DepartmentID *int64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", map[string]any{"roles": roles})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	role, err := h.service.CreateRole(r.Context(), req.Name, req.DepartmentID)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.RespondError(w, h.logger, httpx.Conflict("Role already exists"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Role created", role)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid role ID"))
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Role not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Role deleted", nil)
}
