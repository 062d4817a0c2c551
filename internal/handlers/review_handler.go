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

// ReviewsService is the interface that wraps methods for review business
// logic.
type ReviewsService interface {
	// Method List retrieves a paginated list of reviews for a title.
	//
	// If no title with such id exists, models.ErrNotFound will be returned together with "nil" value.
	List(ctx context.Context, titleID, page, count int) ([]models.Review, error)
	// Method Get retrieves one review under a title.
	//
	// If no such review exists under the title, models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, titleID, reviewID int) (*models.Review, error)
	// Method Create stores a new review by the acting user.
	//
	// A second review of the same title by the same author maps to models.ErrAlreadyReviewed.
	Create(ctx context.Context, actor *models.User, titleID int, req *models.CreateReviewRequest) (*models.Review, error)
	// Method Update applies a partial update to a review.
	//
	// An actor who is neither the author nor a moderator/admin maps to models.ErrForbidden.
	Update(ctx context.Context, actor *models.User, titleID, reviewID int, req *models.UpdateReviewRequest) (*models.Review, error)
	// Method Delete removes a review, subject to the same policy as Update.
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int) error
}

// ReviewsHandler handles HTTP requests for reviews nested under titles
type ReviewsHandler struct {
	BaseHandler
	service ReviewsService
}

// NewReviewsHandler creates a new reviews handler
func NewReviewsHandler(svc ReviewsService, logger *zap.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all review handler routes
func (h *ReviewsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/titles/{titleID}/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{reviewID}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.Create)
			r.Patch("/{reviewID}", h.Update)
			r.Delete("/{reviewID}", h.Delete)
		})
	})
}

// pathIDs reads the numeric path parameters named in params, writing a 400
// on the first malformed one
func (h *ReviewsHandler) pathIDs(w http.ResponseWriter, r *http.Request, params ...string) ([]int, bool) {
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

// List handles GET /api/v1/titles/{titleID}/reviews
// @Summary List reviews
// @Description Get a paginated list of reviews for a title
// @Tags reviews
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20"
// @Success 200 {array} models.Review
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/titles/{titleID}/reviews [get]
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID")
	if !ok {
		return
	}
	page, count := pageParams(r)

	reviews, err := h.service.List(r.Context(), ids[0], page, count)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, reviews)
}

// Get handles GET /api/v1/titles/{titleID}/reviews/{reviewID}
// @Summary Get review
// @Description Get one review under a title
// @Tags reviews
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Success 200 {object} models.Review
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/titles/{titleID}/reviews/{reviewID} [get]
func (h *ReviewsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	review, err := h.service.Get(r.Context(), ids[0], ids[1])
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, review)
}

// Create handles POST /api/v1/titles/{titleID}/reviews
// @Summary Create review
// @Description Leave a scored review on a title; one review per author per title
// @Tags reviews
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param request body models.CreateReviewRequest true "Text and score (1-10)"
// @Success 201 {object} models.Review
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{titleID}/reviews [post]
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID")
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := middleware.CurrentUser(r.Context())
	review, err := h.service.Create(r.Context(), actor, ids[0], &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, review)
}

// Update handles PATCH /api/v1/titles/{titleID}/reviews/{reviewID}
// @Summary Update review
// @Description Partially update a review; author, moderator or admin only
// @Tags reviews
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Param request body models.UpdateReviewRequest true "Fields to update"
// @Success 200 {object} models.Review
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{titleID}/reviews/{reviewID} [patch]
func (h *ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := middleware.CurrentUser(r.Context())
	review, err := h.service.Update(r.Context(), actor, ids[0], ids[1], &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/v1/titles/{titleID}/reviews/{reviewID}
// @Summary Delete review
// @Description Delete a review; author, moderator or admin only
// @Tags reviews
// @Accept json
// @Produce json
// @Param titleID path int true "Title ID"
// @Param reviewID path int true "Review ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{titleID}/reviews/{reviewID} [delete]
func (h *ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := h.pathIDs(w, r, "titleID", "reviewID")
	if !ok {
		return
	}

	actor := middleware.CurrentUser(r.Context())
	if err := h.service.Delete(r.Context(), actor, ids[0], ids[1]); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
