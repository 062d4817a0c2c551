package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/criticdb/backend/internal/models"
	"github.com/criticdb/backend/internal/repositories"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TitlesService is the interface that wraps methods for title catalog
// business logic.
type TitlesService interface {
	// Method List retrieves a paginated, filtered list of titles with rating and resolved category/genres.
	//
	// "filter" parameter narrows the list by category slug, genre slug, name substring or release year.
	List(ctx context.Context, page, count int, filter repositories.TitleFilter) ([]models.TitleResponse, error)
	// Method Get retrieves one title.
	//
	// If no title with such id exists, models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, id int) (*models.TitleResponse, error)
	// Method Create validates and stores a new title.
	//
	// A future year or an unknown category/genre slug maps to models.ErrValidation.
	Create(ctx context.Context, req *models.CreateTitleRequest) (*models.TitleResponse, error)
	// Method Update applies a partial update to a title.
	//
	// If no title with such id exists, models.ErrNotFound will be returned together with "nil" value.
	Update(ctx context.Context, id int, req *models.UpdateTitleRequest) (*models.TitleResponse, error)
	// Method Delete removes a title.
	//
	// If no title with such id exists, models.ErrNotFound will be returned.
	Delete(ctx context.Context, id int) error
}

// TitlesHandler handles HTTP requests for titles
type TitlesHandler struct {
	BaseHandler
	service TitlesService
}

// NewTitlesHandler creates a new titles handler
func NewTitlesHandler(svc TitlesService, logger *zap.Logger) *TitlesHandler {
	return &TitlesHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all title handler routes
func (h *TitlesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/titles", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// titleID reads the {id} path parameter
func (h *TitlesHandler) titleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid id parameter")
		return 0, false
	}
	return id, true
}

// List handles GET /api/v1/titles
// @Summary List titles
// @Description Get a paginated list of titles filtered by category, genre, name or year
// @Tags titles
// @Accept json
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20"
// @Param category query string false "Category slug filter"
// @Param genre query string false "Genre slug filter"
// @Param name query string false "Name substring filter"
// @Param year query int false "Release year filter"
// @Success 200 {array} models.TitleResponse
// @Failure 500 {object} map[string]string
// @Router /api/v1/titles [get]
func (h *TitlesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, count := pageParams(r)

	filter := repositories.TitleFilter{
		CategorySlug: r.URL.Query().Get("category"),
		GenreSlug:    r.URL.Query().Get("genre"),
		Name:         r.URL.Query().Get("name"),
	}
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid year parameter")
			return
		}
		filter.Year = year
	}

	titles, err := h.service.List(r.Context(), page, count, filter)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, titles)
}

// Get handles GET /api/v1/titles/{id}
// @Summary Get title
// @Description Get a title by id with its average rating
// @Tags titles
// @Accept json
// @Produce json
// @Param id path int true "Title ID"
// @Success 200 {object} models.TitleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/titles/{id} [get]
func (h *TitlesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.titleID(w, r)
	if !ok {
		return
	}

	title, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, title)
}

// Create handles POST /api/v1/titles
// @Summary Create title
// @Description Create a title, admin only
// @Tags titles
// @Accept json
// @Produce json
// @Param request body models.CreateTitleRequest true "Title fields with category and genre slugs"
// @Success 201 {object} models.TitleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles [post]
func (h *TitlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalogWriter(w, r) {
		return
	}

	var req models.CreateTitleRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, title)
}

// Update handles PATCH /api/v1/titles/{id}
// @Summary Update title
// @Description Partially update a title, admin only
// @Tags titles
// @Accept json
// @Produce json
// @Param id path int true "Title ID"
// @Param request body models.UpdateTitleRequest true "Fields to update"
// @Success 200 {object} models.TitleResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{id} [patch]
func (h *TitlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalogWriter(w, r) {
		return
	}

	id, ok := h.titleID(w, r)
	if !ok {
		return
	}

	var req models.UpdateTitleRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, title)
}

// Delete handles DELETE /api/v1/titles/{id}
// @Summary Delete title
// @Description Delete a title by id, admin only
// @Tags titles
// @Accept json
// @Produce json
// @Param id path int true "Title ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/titles/{id} [delete]
func (h *TitlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalogWriter(w, r) {
		return
	}

	id, ok := h.titleID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
