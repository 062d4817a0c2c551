package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/criticdb/backend/internal/middleware"
	"github.com/criticdb/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CommentsService is the interface that wraps methods for comment business
// logic.
type CommentsService interface {
	// Method List retrieves a paginated list of comments for a review.
	//
	// If the review does not exist under the title, models.ErrNotFound will be returned together with "nil" value.
	List(ctx context.Context, titleID, reviewID, page, count int) ([]models.Comment, error)
	// Method Get retrieves one comment under a review.
	//
	// If no such comment exists under the review, models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, titleID, reviewID, commentID int) (*models.Comment, error)
	// Method Create stores a new comment by the acting user.
	Create(ctx context.Context, actor *models.User, titleID, reviewID int, req *models.CreateCommentRequest) (*models.Comment, error)
	// Method Update applies a partial update to a comment.
	//
	// An actor who is neither the author nor a moderator/admin maps to models.ErrForbidden.
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int, req *models.UpdateCommentRequest) (*models.Comment, error)
	// Method Delete removes a comment, subject to the same policy as Update.
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int) error
}

// CommentsHandler handles HTTP requests for comments nested under reviews
type CommentsHandler struct {
	BaseHandler
	service CommentsService
}

// NewCommentsHandler creates a new comments handler
func NewCommentsHandler(svc CommentsService, logger *zap.Logger) *CommentsHandler {
	return &CommentsHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all comment handler routes
func (h *CommentsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/titles/{titleID}/reviews/{reviewID}/comments", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{commentID}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.Create)
			r.Patch("/{commentID}", h.Update)
			r.Delete("/{commentID}", h.Delete)
		})
	})
}

// pathIDs reads the numeric path parameters named in params, writing a 400
// on the first malformed one
func (h *CommentsHandler) pathIDs(w http.ResponseWriter, r *http.Request, params ...string) ([]int, bool) {
	ids := make([]int, 0, len(params))
	for _, param := range params {
		id, err := strconv.Atoi(chi.URLParam(r, param))
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid "+param+" parameter")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// List handles GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments
// @Summary List comments
// @Description Get a paginated list of comments for a review
// @Tags comments
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20"
// @Success 200 {array} models.Comment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/titles/{titleID}/reviews/{reviewID}/comments [get]
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID")
	if !ok {
		return
	}
	page, count := pageParams(r)

	comments, err := h.service.List(r.Context(), ids[0], ids[1], page, count)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, comments)
}

// Get handles GET /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
// @Summary Get comment
// @Description Get one comment under a review
// @Tags comments
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Param commentID path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID} [get]
func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}

	comment, err := h.service.Get(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, comment)
}

// Create handles POST /api/v1/titles/{titleID}/reviews/{reviewID}/comments
// @Summary Create comment
// @Description Leave a comment on a review
// @Tags comments
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Param request body models.CreateCommentRequest true "Comment text"
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{titleID}/reviews/{reviewID}/comments [post]
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := middleware.CurrentUser(r.Context())
	comment, err := h.service.Create(r.Context(), actor, ids[0], ids[1], &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, comment)
}

// Update handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
// @Summary Update comment
// @Description Partially update a comment; author, moderator or admin only
// @Tags comments
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Param commentID path int true "Comment ID"
// @Param request body models.UpdateCommentRequest true "Fields to update"
// @Success 200 {object} models.Comment
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID} [patch]
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := middleware.CurrentUser(r.Context())
	comment, err := h.service.Update(r.Context(), actor, ids[0], ids[1], ids[2], &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID}
// @Summary Delete comment
// @Description Delete a comment; author, moderator or admin only
// @Tags comments
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Param commentID path int true "Comment ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{titleID}/reviews/{reviewID}/comments/{commentID} [delete]
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID", "commentID")
	if !ok {
		return
	}

	actor := middleware.CurrentUser(r.Context())
	if err := h.service.Delete(r.Context(), actor, ids[0], ids[1], ids[2]); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
