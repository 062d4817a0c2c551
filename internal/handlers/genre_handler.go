package handlers

import (
	"context"
	"net/http"

	"github.com/criticdb/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GenresService is the interface that wraps methods for genre catalog
// business logic.
type GenresService interface {
	// Method List retrieves a paginated list of genres with an optional name search.
	List(ctx context.Context, page, count int, search string) ([]models.Genre, error)
	// Method Create validates and stores a new genre.
	//
	// A duplicate or malformed slug maps to models.ErrValidation.
	Create(ctx context.Context, req *models.CreateGenreRequest) (*models.Genre, error)
	// Method Delete removes a genre by slug.
	//
	// If no genre with such slug exists, models.ErrNotFound will be returned.
	Delete(ctx context.Context, slug string) error
}

// GenresHandler handles HTTP requests for genres
type GenresHandler struct {
	BaseHandler
	service GenresService
}

// NewGenresHandler creates a new genres handler
func NewGenresHandler(svc GenresService, logger *zap.Logger) *GenresHandler {
	return &GenresHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all genre handler routes
func (h *GenresHandler) RegisterRoutes(r chi.Router) {
	r.Route("/genres", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{slug}", h.Delete)
	})
}

// List handles GET /api/v1/genres
// @Summary List genres
// @Description Get a paginated list of genres
// @Tags genres
// @Accept json
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20"
// @Param search query string false "Name substring filter"
// @Success 200 {array} models.Genre
// @Failure 500 {object} map[string]string
// @Router /api/v1/genres [get]
func (h *GenresHandler) List(w http.ResponseWriter, r *http.Request) {
	page, count := pageParams(r)
	search := r.URL.Query().Get("search")

	genres, err := h.service.List(r.Context(), page, count, search)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, genres)
}

// Create handles POST /api/v1/genres
// @Summary Create genre
// @Description Create a genre, admin only
// @Tags genres
// @Accept json
// @Produce json
// @Param request body models.CreateGenreRequest true "Name and slug"
// @Success 201 {object} models.Genre
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/genres [post]
func (h *GenresHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalogWriter(w, r) {
		return
	}

	var req models.CreateGenreRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	genre, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, genre)
}

// Delete handles DELETE /api/v1/genres/{slug}
// @Summary Delete genre
// @Description Delete a genre by slug, admin only
// @Tags genres
// @Accept json
// @Produce json
// @Param slug path string true "Genre slug"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/genres/{slug} [delete]
func (h *GenresHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalogWriter(w, r) {
		return
	}

	slug := chi.URLParam(r, "slug")
	if err := h.service.Delete(r.Context(), slug); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
