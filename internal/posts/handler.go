package posts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkpost/inkpost/internal/platform/httpx"
	"github.com/inkpost/inkpost/internal/shared"
)

// Handler wires HTTP endpoints for posts, likes and bookmarks.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type postResponse struct {
	httpx.Envelope
	Post *Post `json:"post"`
}

type listResponse struct {
	httpx.Envelope
	Posts      []Post            `json:"posts"`
	Pagination shared.Pagination `json:"pagination"`
}

func viewerID(r *http.Request) int64 {
	if identity, ok := shared.IdentityFromContext(r.Context()); ok {
		return identity.UserID
	}
	return 0
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// PageParams reads page/limit query parameters with sane fallbacks.
func PageParams(r *http.Request, defaultLimit int) (page, limit int) {
	page = 1
	limit = defaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	post, err := h.service.Create(r.Context(), viewerID(r), req)
	if err != nil {
		h.logger.Error("create post", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, postResponse{
		Envelope: httpx.OK("Post created successfully"),
		Post:     post,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit := PageParams(r, defaultPageSize)
	q := ListQuery{
		Page:   page,
		Limit:  limit,
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("search"),
	}

	result, err := h.service.List(r.Context(), q, viewerID(r))
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, listResponse{
		Envelope:   httpx.Envelope{Success: true},
		Posts:      result.Posts,
		Pagination: result.Pagination,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.service.Get(r.Context(), id, viewerID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, postResponse{
		Envelope: httpx.Envelope{Success: true},
		Post:     post,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req UpdatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	post, err := h.service.Update(r.Context(), id, viewerID(r), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, postResponse{
		Envelope: httpx.OK("Post updated successfully"),
		Post:     post,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, viewerID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, httpx.OK("Post deleted successfully"))
}

type likeResponse struct {
	httpx.Envelope
	IsLiked    bool `json:"isLiked"`
	LikesCount int  `json:"likesCount"`
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	liked, likes, err := h.service.ToggleLike(r.Context(), id, viewerID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	httpx.JSON(w, http.StatusOK, likeResponse{
		Envelope:   httpx.OK(message),
		IsLiked:    liked,
		LikesCount: likes,
	})
}

type bookmarkResponse struct {
	httpx.Envelope
	IsBookmarked bool `json:"isBookmarked"`
}

func (h *Handler) toggleBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	bookmarked, err := h.service.ToggleBookmark(r.Context(), id, viewerID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	message := "Bookmark removed"
	if bookmarked {
		message = "Post bookmarked"
	}
	httpx.JSON(w, http.StatusOK, bookmarkResponse{
		Envelope:     httpx.OK(message),
		IsBookmarked: bookmarked,
	})
}
