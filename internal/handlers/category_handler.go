package handlers

import (
	"context"
	"net/http"

	"github.com/criticdb/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoriesService is the interface that wraps methods for category catalog
// business logic.
type CategoriesService interface {
	// Method List retrieves a paginated list of categories with an optional name search.
	List(ctx context.Context, page, count int, search string) ([]models.Category, error)
	// Method Create validates and stores a new category.
	//
	// A duplicate or malformed slug maps to models.ErrValidation.
	Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	// Method Delete removes a category by slug.
	//
	// If no category with such slug exists, models.ErrNotFound will be returned.
	Delete(ctx context.Context, slug string) error
}

// CategoriesHandler handles HTTP requests for categories
type CategoriesHandler struct {
	BaseHandler
	service CategoriesService
}

// NewCategoriesHandler creates a new categories handler
func NewCategoriesHandler(svc CategoriesService, logger *zap.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all category handler routes
func (h *CategoriesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/{slug}", h.Delete)
	})
}

// List handles GET /api/v1/categories
// @Summary List categories
// @Description Get a paginated list of categories
// @Tags categories
// @Accept json
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20"
// @Param search query string false "Name substring filter"
// @Success 200 {array} models.Category
// @Failure 500 {object} map[string]string
// @Router /api/v1/categories [get]
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	page, count := pageParams(r)
	search := r.URL.Query().Get("search")

	categories, err := h.service.List(r.Context(), page, count, search)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/v1/categories
// @Summary Create category
// @Description Create a category, admin only
// @Tags categories
// @Accept json
// @Produce json
// @Param request body models.CreateCategoryRequest true "Name and slug"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/categories [post]
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireCatalogWriter(w, r) {
		return
	}

	var req models.CreateCategoryRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, category)
}

// Delete handles DELETE /api/v1/categories/{slug}
// @Summary Delete category
// @Description Delete a category by slug, admin only
// @Tags categories
// @Accept json
// @Produce json
// @Param slug path string true "Category slug"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/categories/{slug} [delete]
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
