package users

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
	"github.com/intralink/intralink/internal/uploads"
)

// Handler wires HTTP endpoints for the user directory.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	roles     *rbac.Service
	store     *uploads.Store
	validate  *validator.Validate
	authorize shared.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, roles *rbac.Service, store *uploads.Store, authorize shared.Authorizer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		roles:     roles,
		store:     store,
		validate:  httpx.NewValidator(),
		authorize: authorize,
	}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(rbac.LabelAdmin, rbac.LabelManager))
		r.Get("/", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(rbac.LabelAdmin))
		r.Post("/", h.create)
		r.Delete("/{id}", h.deactivate)
		r.Post("/{id}/activate", h.activate)
		r.Get("/{id}/roles", h.listRoles)
		r.Post("/{id}/roles", h.assignRole)
		r.Delete("/{id}/roles/{roleID}", h.revokeRole)
	})
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.updateProfile)
	r.Put("/{id}/password", h.changePassword)
	r.Post("/{id}/avatar", h.uploadAvatar)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r)
	search := r.URL.Query().Get("search")
	list, pagination, err := h.service.List(r.Context(), search, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "users", toResponses(list), pagination)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("User not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", toResponse(user))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	user, err := h.service.Create(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.RespondError(w, h.logger, httpx.Conflict("Email or username already taken"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "User created", toResponse(user))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.selfOrAdmin(w, r, id) {
		return
	}
	var req updateProfileRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), id, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.RespondError(w, h.logger, httpx.NotFound("User not found"))
		case errors.Is(err, shared.ErrDuplicate):
			httpx.RespondError(w, h.logger, httpx.Conflict("Email or username already taken"))
		default:
			httpx.RespondError(w, h.logger, err)
		}
		return
	}
	httpx.OK(w, "Profile updated", toResponse(user))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil || principal.ID != id {
		httpx.RespondError(w, h.logger, httpx.Forbidden("Insufficient permissions"))
		return
	}
	var req changePasswordRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	if err := h.service.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Current password is incorrect"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Password changed", nil)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("User not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "User deactivated", nil)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Activate(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("User not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "User activated", nil)
}

func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if !h.selfOrAdmin(w, r, id) {
		return
	}
	path, err := h.store.Save(r, "avatar", "avatars")
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrTooLarge):
			httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "File too large"))
		case errors.Is(err, uploads.ErrUnsupportedType):
			httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Unsupported file type"))
		case errors.Is(err, uploads.ErrMalformed):
			httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid upload"))
		default:
			httpx.RespondError(w, h.logger, err)
		}
		return
	}
	if err := h.service.SetAvatar(r.Context(), id, path); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Avatar updated", map[string]any{"avatar_path": path})
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	assignments, err := h.roles.UserRoles(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", map[string]any{"roles": assignments})
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req assignRoleRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	if err := h.roles.AssignRole(r.Context(), id, req.RoleID); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Role assigned", nil)
}

func (h *Handler) revokeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid role ID"))
		return
	}
	if err := h.roles.RevokeRole(r.Context(), id, roleID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Assignment not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Role revoked", nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid user ID"))
		return 0, false
	}
	return id, true
}

// selfOrAdmin allows the owner of the row or an administrator. Admin is
// detected from principal.Roles when an authorize() gate already populated
// it, falling back to the denormalized single role otherwise.
func (h *Handler) selfOrAdmin(w http.ResponseWriter, r *http.Request, id int64) bool {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return false
	}
	if principal.ID == id || rbac.IsAdmin(principal) {
		return true
	}
	httpx.RespondError(w, h.logger, httpx.Forbidden("Insufficient permissions"))
	return false
}
