package posts

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

// Handler wires HTTP endpoints for posts.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	store     *uploads.Store
	validate  *validator.Validate
	authorize shared.Authorizer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, store *uploads.Store, authorize shared.Authorizer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		store:     store,
		validate:  httpx.NewValidator(),
		authorize: authorize,
	}
}

// MountRoutes registers post routes. Pinning is admin only; edits and
// deletion are author-or-admin, checked in the handler.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/attachments", h.uploadAttachment)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Group(func(r chi.Router) {
		r.Use(h.authorize(rbac.LabelAdmin))
		r.Post("/{id}/pin", h.pin)
		r.Delete("/{id}/pin", h.unpin)
	})
}

type createPostRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Body           string  `json:"body" validate:"required,max=20000"`
	DepartmentID   *int64  `json:"department_id,omitempty" validate:"omitempty,gt=0"`
	AttachmentPath *string `json:"attachment_path,omitempty" validate:"omitempty,max=500"`
}

type updatePostRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Body         *string `json:"body,omitempty" validate:"omitempty,max=20000"`
	DepartmentID *int64  `json:"department_id,omitempty" validate:"omitempty,gt=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := shared.PageParams(r)
	var departmentID, authorID *int64
	if v := r.URL.Query().Get("department_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			departmentID = &id
		}
	}
	if v := r.URL.Query().Get("author_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			authorID = &id
		}
	}
	list, pagination, err := h.service.List(r.Context(), departmentID, authorID, page, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Paginated(w, "posts", list, pagination)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Post not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "", post)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return
	}
	var req createPostRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	post, err := h.service.Create(r.Context(), principal.ID, req.DepartmentID, req.Title, req.Body, req.AttachmentPath)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.Created(w, "Post created", post)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if !h.authorOrAdmin(w, r, id) {
		return
	}
	var req updatePostRequest
	if verr := httpx.Bind(r, h.validate, &req); verr != nil {
		httpx.RespondError(w, h.logger, verr)
		return
	}
	post, err := h.service.Update(r.Context(), id, req.Title, req.Body, req.DepartmentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Post not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Post updated", post)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if !h.authorOrAdmin(w, r, id) {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Post not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, "Post deleted", nil)
}

func (h *Handler) pin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, true, "Post pinned")
}

func (h *Handler) unpin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, false, "Post unpinned")
}

func (h *Handler) setPinned(w http.ResponseWriter, r *http.Request, pinned bool, message string) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.SetPinned(r.Context(), id, pinned); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Post not found"))
			return
		}
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.OK(w, message, nil)
}

func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	path, err := h.store.Save(r, "file", "attachments")
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
	httpx.Created(w, "Attachment uploaded", map[string]any{"attachment_path": path})
}

func (h *Handler) authorOrAdmin(w http.ResponseWriter, r *http.Request, id int64) bool {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, h.logger, httpx.Unauthenticated("Authentication required"))
		return false
	}
	post, err := h.service.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, h.logger, httpx.NotFound("Post not found"))
			return false
		}
		httpx.RespondError(w, h.logger, err)
		return false
	}
	if post.AuthorID == principal.ID || rbac.IsAdmin(principal) {
		return true
	}
	httpx.RespondError(w, h.logger, httpx.Forbidden("Insufficient permissions"))
	return false
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, h.logger, httpx.E(http.StatusBadRequest, "Invalid post ID"))
		return 0, false
	}
	return id, true
}
