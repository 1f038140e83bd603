package comments

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

// Handler wires HTTP endpoints for comments.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type commentResponse struct {
	httpx.Envelope
	Comment *Comment `json:"comment"`
}

type listResponse struct {
	httpx.Envelope
	Comments   []Comment         `json:"comments"`
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

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req commentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	comment, err := h.service.Add(r.Context(), postID, actorID(r), req.Text)
	if err != nil {
		h.logger.Error("create comment", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, commentResponse{
		Envelope: httpx.OK("Comment added successfully"),
		Comment:  comment,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	page, limit := posts.PageParams(r, defaultPageSize)
	result, err := h.service.List(r.Context(), postID, page, limit)
	if err != nil {
		h.logger.Error("list comments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, listResponse{
		Envelope:   httpx.Envelope{Success: true},
		Comments:   result.Comments,
		Pagination: result.Pagination,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req commentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, httpx.FirstValidationMessage(err))
		return
	}

	comment, err := h.service.Update(r.Context(), id, actorID(r), req.Text)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, commentResponse{
		Envelope: httpx.OK("Comment updated successfully"),
		Comment:  comment,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, actorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, httpx.OK("Comment deleted successfully"))
}
