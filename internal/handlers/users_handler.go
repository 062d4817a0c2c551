package handlers

import (
	"context"
	"net/http"

	"github.com/criticdb/backend/internal/middleware"
	"github.com/criticdb/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UsersService is the interface that wraps methods for user management and
// the self-scoped profile.
type UsersService interface {
	// Method List retrieves a paginated list of users with an optional username search.
	//
	// "page" and "count" parameters drive pagination; "search" is an optional username substring filter.
	List(ctx context.Context, page, count int, search string) ([]models.UserResponse, error)
	// Method Create registers a user on behalf of an administrator.
	//
	// Any valid role may be assigned; a taken username or email maps to models.ErrConflict.
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error)
	// Method Get retrieves a user by username.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	Get(ctx context.Context, username string) (*models.UserResponse, error)
	// Method Update applies a partial update to the named user, role changes included.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned together with "nil" value.
	Update(ctx context.Context, username string, req *models.UpdateUserRequest) (*models.UserResponse, error)
	// Method Delete removes a user by username.
	//
	// If user with such username does not exist, models.ErrNotFound will be returned.
	Delete(ctx context.Context, username string) error
	// Method GetMe retrieves the acting user's own account.
	GetMe(ctx context.Context, actor *models.User) (*models.UserResponse, error)
	// Method UpdateMe applies a partial update to the acting user's own account.
	//
	// A role field in the request is ignored so users cannot promote themselves.
	UpdateMe(ctx context.Context, actor *models.User, req *models.UpdateUserRequest) (*models.UserResponse, error)
}

// UsersHandler handles HTTP requests for user management
type UsersHandler struct {
	BaseHandler
	service UsersService
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(svc UsersService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all user handler routes. The static /me route is
// registered inside the same subtree; chi matches it before the {username}
// wildcard, which is why "me" is a reserved username.
func (h *UsersHandler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", h.GetMe)
			r.Patch("/me", h.UpdateMe)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUserManager)
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{username}", h.Get)
			r.Patch("/{username}", h.Update)
			r.Delete("/{username}", h.Delete)
		})
	})
}

// List handles GET /api/v1/users
// @Summary List users
// @Description Get a paginated list of users, admin only
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number, default: 1"
// @Param count query int false "Page size, default: 20"
// @Param search query string false "Username substring filter"
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, count := pageParams(r)
	search := r.URL.Query().Get("search")

	users, err := h.service.List(r.Context(), page, count, search)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}

// Create handles POST /api/v1/users
// @Summary Create user
// @Description Create a user account with an explicit role, admin only
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "User fields"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users [post]
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

// Get handles GET /api/v1/users/{username}
// @Summary Get user
// @Description Get a user by username, admin only
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/{username} [get]
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.service.Get(r.Context(), username)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// Update handles PATCH /api/v1/users/{username}
// @Summary Update user
// @Description Partially update a user, role changes included, admin only
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/{username} [patch]
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req models.UpdateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Update(r.Context(), username, &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/v1/users/{username}
// @Summary Delete user
// @Description Delete a user by username, admin only
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Success 204
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/{username} [delete]
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.service.Delete(r.Context(), username); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /api/v1/users/me
// @Summary Get own account
// @Description Get the authenticated user's own account
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/me [get]
func (h *UsersHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentUser(r.Context())

	user, err := h.service.GetMe(r.Context(), actor)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/v1/users/me
// @Summary Update own account
// @Description Partially update the authenticated user's own account; the role field is ignored
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/users/me [patch]
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentUser(r.Context())

	var req models.UpdateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateMe(r.Context(), actor, &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}
