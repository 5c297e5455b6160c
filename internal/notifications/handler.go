package notifications

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/shared"
)

// Handler wires HTTP endpoints for the caller's own notifications.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers notification routes. Everything is scoped to the
// authenticated principal; no role gate needed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Put("/{id}/read", h.markRead)
	r.Put("/read-all", h.markAllRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	page, limit := shared.PageParams(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	list, pagination, err := h.service.List(r.Context(), principal.ID, unreadOnly, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "notifications", list, pagination)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	count, err := h.service.UnreadCount(r.Context(), principal.ID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", map[string]any{"count": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid notification ID"))
		return
	}
	if err := h.service.MarkRead(r.Context(), principal.ID, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Notification not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Notification marked as read", nil)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	if err := h.service.MarkAllRead(r.Context(), principal.ID); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "All notifications marked as read", nil)
}
