package handlers

import (
	"context"
	"net/http"

	"github.com/criticdb/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for the signup and token
// exchange flow.
type AuthService interface {
	// Method Signup registers an account (or recognizes an existing one) and emails a fresh confirmation code.
	//
	// "req" parameter carries the requested username and email.
	//
	// Repeating a signup with the same pair is idempotent. A username or email already
	// bound to a different counterpart maps to models.ErrConflict.
	Signup(ctx context.Context, req *models.SignUpRequest) (*models.SignUpResponse, error)
	// Method IssueToken exchanges a confirmation code for a signed access token.
	//
	// "req" parameter carries the username and confirmation code.
	//
	// An unknown username maps to models.ErrNotFound; a code that does not verify
	// maps to models.ErrAuthentication.
	IssueToken(ctx context.Context, req *models.TokenRequest) (string, error)
}

// AuthHandler handles HTTP requests for signup and token issuance
type AuthHandler struct {
	BaseHandler
	service AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/token", h.Token)
	})
}

// Signup handles POST /api/v1/auth/signup
// @Summary Sign up
// @Description Register an account and receive a confirmation code by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.SignUpRequest true "Username and email"
// @Success 200 {object} models.SignUpResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Token handles POST /api/v1/auth/token
// @Summary Obtain access token
// @Description Exchange a username and confirmation code for a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.TokenRequest true "Username and confirmation code"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.service.IssueToken(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, models.TokenResponse{Token: token})
}
