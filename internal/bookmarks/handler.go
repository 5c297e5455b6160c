package bookmarks

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/shared"
)

// Handler wires HTTP endpoints for bookmarks. Everything is scoped to
// the authenticated caller; there are no cross-user views.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers bookmark routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Put("/{postID}", h.add)
	r.Delete("/{postID}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	page, limit := shared.PageParams(r)
	list, pagination, err := h.service.List(r.Context(), principal.ID, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "bookmarks", list, pagination)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	principal, postID, ok := h.principalAndPostID(w, r)
	if !ok {
		return
	}
	if err := h.service.Add(r.Context(), principal.ID, postID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Post not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Post bookmarked", nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	principal, postID, ok := h.principalAndPostID(w, r)
	if !ok {
		return
	}
	if err := h.service.Remove(r.Context(), principal.ID, postID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Bookmark not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Bookmark removed", nil)
}

func (h *Handler) principalAndPostID(w http.ResponseWriter, r *http.Request) (*shared.Principal, int64, bool) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return nil, 0, false
	}
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid post ID"))
		return nil, 0, false
	}
	return principal, postID, true
}
