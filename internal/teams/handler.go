package teams

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

// Handler wires HTTP endpoints for teams.
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

// MountRoutes registers team routes. Mutations need manager or admin.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Get("/{id}/members", h.members)
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(rbac.LabelAdmin, rbac.LabelManager))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/members", h.addMember)
		r.Delete("/{id}/members/{userID}", h.removeMember)
	})
}

type createTeamRequest struct {
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=500"`
	LeadID       *int64 `json:"lead_id,omitempty" validate:"omitempty,gt=0"`
}

type updateTeamRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	LeadID      *int64  `json:"lead_id,omitempty" validate:"omitempty,gt=0"`
}

type memberRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r)
	var departmentID *int64
	if v := r.URL.Query().Get("department_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			departmentID = &id
		}
	}
	list, pagination, err := h.service.List(r.Context(), departmentID, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "teams", list, pagination)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	team, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Team not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", team)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	team, err := h.service.Create(r.Context(), req.DepartmentID, req.Name, req.Description, req.LeadID)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.RespondError(w, h.logger, httpx.Conflict("Team already exists"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Team created", team)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateTeamRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	team, err := h.service.Update(r.Context(), id, req.Name, req.Description, req.LeadID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Team not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Team updated", team)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Team not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Team deleted", nil)
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.service.Members(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Team not found"))
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
			httpx.RespondError(w, h.logger, httpx.NotFound("Team not found"))
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

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid team ID"))
		return 0, false
	}
	return id, true
}
