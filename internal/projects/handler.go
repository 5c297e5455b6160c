package projects

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

// Handler wires HTTP endpoints for projects.
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

// MountRoutes registers project routes. Creation needs manager or admin;
// updates and deletion are owner-or-admin, checked in the handler.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Get("/{id}/members", h.members)
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(rbac.LabelAdmin, rbac.LabelManager))
		r.Post("/", h.create)
		r.Post("/{id}/members", h.addMember)
		r.Delete("/{id}/members/{userID}", h.removeMember)
	})
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createProjectRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	DepartmentID *int64 `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

type updateProjectRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=active completed archived"`
	DepartmentID *int64  `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

type memberRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r)
	status := r.URL.Query().Get("status")
	var departmentID *int64
	if v := r.URL.Query().Get("department_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			departmentID = &id
		}
	}
	list, pagination, err := h.service.List(r.Context(), status, departmentID, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "projects", list, pagination)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Project not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", project)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	var req createProjectRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	project, err := h.service.Create(r.Context(), req.Name, req.Description, principal.ID, req.DepartmentID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Project created", project)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.ownerOrAdmin(w, r, id) {
		return
	}
	var req updateProjectRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	project, err := h.service.Update(r.Context(), id, req.Name, req.Description, req.Status, req.DepartmentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Project not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Project updated", project)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.ownerOrAdmin(w, r, id) {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Project not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Project deleted", nil)
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.service.Members(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Project not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", map[string]any{"members": members})
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req memberRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	if err := h.service.AddMember(r.Context(), id, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Project not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Member added", nil)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid user ID"))
		return
	}
	if err := h.service.RemoveMember(r.Context(), id, userID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Membership not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Member removed", nil)
}

func (h *Handler) ownerOrAdmin(w http.ResponseWriter, r *http.Request, id int64) bool {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return false
	}
	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Project not found"))
			return false
		}
		httpx.RespondError(w, h.logger, err)
		return false
	}
	if project.OwnerID == principal.ID || rbac.IsAdmin(principal) {
		return true
	}
	httpx.RespondError(w, h.logger, httpx.Forbidden("Insufficient permissions"))
	return false
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid project ID"))
		return 0, false
	}
	return id, true
}
