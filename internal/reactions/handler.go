package reactions

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

// Handler wires HTTP endpoints for reactions. Routes nest under the
// target resource: /posts/{id}/reactions and /comments/{id}/reactions.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: httpx.NewValidator()}
}

// MountPostRoutes registers reaction routes under posts.
func (h *Handler) MountPostRoutes(r chi.Router) {
	r.Get("/{id}/reactions", h.summarize(TargetPost))
	r.Post("/{id}/reactions", h.toggle(TargetPost))
	r.Delete("/{id}/reactions", h.remove(TargetPost))
}

// MountCommentRoutes registers reaction routes under comments.
func (h *Handler) MountCommentRoutes(r chi.Router) {
	r.Get("/{id}/reactions", h.summarize(TargetComment))
	r.Post("/{id}/reactions", h.toggle(TargetComment))
	r.Delete("/{id}/reactions", h.remove(TargetComment))
}

type toggleRequest struct {
	Kind string `json:"kind" validate:"required,oneof=like celebrate insightful curious"`
}

func (h *Handler) toggle(targetType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, targetID, ok := h.principalAndID(w, r)
		if !ok {
			return
		}
		var req toggleRequest
		if verr := httpx.Bind(r, h.validate, &req); verr != nil {
			httpx.RespondError(w, h.logger, verr)
			return
		}
		reaction, err := h.service.Toggle(r.Context(), principal.ID, targetType, targetID, req.Kind)
		if err != nil {
			httpx.RespondError(w, h.logger, err)
			return
		}
		if reaction == nil {
			httpx.OK(w, "Reaction removed", nil)
			return
		}
		httpx.OK(w, "Reaction saved", reaction)
	}
}

func (h *Handler) remove(targetType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, targetID, ok := h.principalAndID(w, r)
		if !ok {
			return
		}
		if err := h.service.Remove(r.Context(), principal.ID, targetType, targetID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				httpx.RespondError(w, h.logger, httpx.NotFound("Reaction not found"))
				return
			}
			httpx.RespondError(w, h.logger, err)
			return
		}
		httpx.OK(w, "Reaction removed", nil)
	}
}

func (h *Handler) summarize(targetType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, targetID, ok := h.principalAndID(w, r)
		if !ok {
			return
		}
		summary, err := h.service.Summarize(r.Context(), principal.ID, targetType, targetID)
		if err != nil {
			httpx.RespondError(w, h.logger, err)
			return
		}
		httpx.OK(w, "", summary)
	}
}

func (h *Handler) principalAndID(w http.ResponseWriter, r *http.Request) (*shared.Principal, int64, bool) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return nil, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid target ID"))
		return nil, 0, false
	}
	return principal, id, true
}
