package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/intralink/intralink/internal/platform/httpx"
	"github.com/intralink/intralink/internal/shared"
)

// Handler wires HTTP endpoints for login and identity introspection.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     *Gate
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *Gate) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		gate:     gate,
		validate: httpx.NewValidator(),
	}
}

// MountRoutes registers auth routes. Login is the only unauthenticated
// endpoint in the API.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticator)
		r.Get("/me", h.me)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	user, token, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.RespondError(w, h.logger, httpx.Unauthenticated("Invalid email or password"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Login successful", loginResponse{
		Token: token,
		User:  user.Principal(),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	httpx.OK(w, "", principal)
}
