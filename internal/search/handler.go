package search

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/intralink/intralink/internal/platform/httpx"
)

// Handler wires the global search endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers search routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.query)
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	q := Normalize(r.URL.Query().Get("q"))
	if q == "" {
		httpx.RespondError(w, h.logger, httpx.ValidationFailed([]httpx.FieldError{{Param: "q", Msg: "q is required"}}))
		return
	}
	var sources []string
	if raw := r.URL.Query().Get("sources"); raw != "" {
		for _, src := range strings.Split(raw, ",") {
			if src = strings.TrimSpace(src); src != "" {
				sources = append(sources, src)
			}
		}
	}
	results, err := h.service.Query(r.Context(), q, sources)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", results)
}
