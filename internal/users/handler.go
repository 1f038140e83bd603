package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/posts"
	"github.com/inkpost/inkpost/internal/shared"
)

// Handler wires HTTP endpoints for user profiles, authored posts and
// the viewer's bookmark list.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	posts     *posts.Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, postsService *posts.Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		posts:     postsService,
		validator: validator.New(),
	}
}

type profileResponse struct {
	httpx.Envelope
	User *Profile `json:"user"`
}

type postsPageResponse struct {
	httpx.Envelope
	Posts      []posts.Post      `json:"posts"`
	Pagination shared.Pagination `json:"pagination"`
}

func actorID(r *http.Request) int64 {
	if identity, ok := shared.IdentityFromContext(r.Context()); ok {
		return identity.UserID
	}
	return 0
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, profileResponse{
		Envelope: httpx.Envelope{Success: true},
		User:     profile,
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), actorID(r), ProfileUpdate{
		Name:           req.Name,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.logger.Error("update profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, profileResponse{
		Envelope: httpx.OK("Profile updated successfully"),
		User:     profile,
	})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	// 404 for unknown users rather than an empty page.
	if _, err := h.service.Get(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}

	page, limit := posts.PageParams(r, 10)
	result, err := h.posts.ListByAuthor(r.Context(), id, actorID(r), page, limit)
	if err != nil {
		h.logger.Error("list user posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, postsPageResponse{
		Envelope:   httpx.Envelope{Success: true},
		Posts:      result.Posts,
		Pagination: result.Pagination,
	})
}

func (h *Handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	page, limit := posts.PageParams(r, 10)
	result, err := h.posts.ListBookmarked(r.Context(), actorID(r), page, limit)
	if err != nil {
		h.logger.Error("list bookmarks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, postsPageResponse{
		Envelope:   httpx.Envelope{Success: true},
		Posts:      result.Posts,
		Pagination: result.Pagination,
	})
}
