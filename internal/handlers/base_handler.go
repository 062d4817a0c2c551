package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/criticdb/backend/internal/middleware"
	"github.com/criticdb/backend/internal/models"
	"github.com/criticdb/backend/internal/permissions"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger *zap.Logger
}

// respondJSON sends a JSON response
func (h *BaseHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error JSON response
func (h *BaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondServiceError maps the sentinel error taxonomy to HTTP statuses.
// Bad confirmation codes surface as 400 rather than 401: the request was
// well-formed but its credentials were wrong, and the API contract treats
// that as a bad request. Unclassified errors are logged and reported as 500
// without leaking internals.
func (h *BaseHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrAuthentication):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrForbidden):
		h.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("unhandled service error", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireCatalogWriter gates catalog mutations to admins and superusers.
// It returns false after writing the response when the actor may not write.
func (h *BaseHandler) requireCatalogWriter(w http.ResponseWriter, r *http.Request) bool {
	actor := middleware.CurrentUser(r.Context())
	if actor.IsAnonymous() {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return false
	}
	if !permissions.CanWriteCatalog(actor) {
		h.respondError(w, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}

// decodeJSON reads a JSON request body into dst
func (h *BaseHandler) decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// pageParams reads the page/count query parameters, tolerating absence and
// garbage; the service layer applies defaults and caps
func pageParams(r *http.Request) (page, count int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	count, _ = strconv.Atoi(r.URL.Query().Get("count"))
	return page, count
}
