package comments

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

// Handler wires HTTP endpoints for comments. Listing and creation are
// nested under posts; edits and deletion address the comment directly.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: httpx.NewValidator()}
}

// MountPostRoutes registers the post-nested routes.
func (h *Handler) MountPostRoutes(r chi.Router) {
	r.Get("/{id}/comments", h.tree)
	r.Post("/{id}/comments", h.create)
}

// MountRoutes registers the direct comment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createCommentRequest struct {
	Body     string `json:"body" validate:"required,max=5000"`
	ParentID *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

type updateCommentRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

func (h *Handler) tree(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.pathID(w, r, "Invalid post ID")
	if !ok {
		return
	}
	tree, err := h.service.Tree(r.Context(), postID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", map[string]any{"comments": tree})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.pathID(w, r, "Invalid post ID")
	if !ok {
		return
	}
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	var req createCommentRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	comment, err := h.service.Create(r.Context(), postID, principal.ID, req.ParentID, req.Body)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Parent comment not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Comment created", comment)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "Invalid comment ID")
	if !ok {
		return
	}
	if !h.authorOrAdmin(w, r, id) {
		return
	}
	var req updateCommentRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	comment, err := h.service.Update(r.Context(), id, req.Body)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Comment not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Comment updated", comment)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "Invalid comment ID")
	if !ok {
		return
	}
	if !h.authorOrAdmin(w, r, id) {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Comment not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Comment deleted", nil)
}

func (h *Handler) authorOrAdmin(w http.ResponseWriter, r *http.Request, id int64) bool {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return false
	}
	comment, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Comment not found"))
			return false
		}
		httpx.RespondError(w, h.logger, err)
		return false
	}
	if comment.AuthorID == principal.ID || rbac.IsAdmin(principal) {
		return true
	}
	httpx.RespondError(w, h.logger, httpx.Forbidden("Insufficient permissions"))
	return false
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, message))
		return 0, false
	}
	return id, true
}
