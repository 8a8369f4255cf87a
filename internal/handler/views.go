package handler

import (
	"log/slog"
	"net/http"

	"drive/internal/capabilities"
	"drive/internal/domain"
	"drive/internal/httputil"
)

// ViewHandler serves per-view capability sets
type ViewHandler struct {
	registry *capabilities.Registry
	logger   *slog.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(registry *capabilities.Registry, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{registry: registry, logger: logger}
}

// GetCapabilities returns the actions a view permits
// GET /views/{view}/capabilities
func (h *ViewHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	view, err := capabilities.ParseView(r.PathValue("view"))
	if err != nil {
		handleError(w, &domain.NotFoundError{Message: err.Error()})
		return
	}

	caps, err := h.registry.Get(view)
	if err != nil {
		handleError(w, &domain.NotFoundError{Message: err.Error()})
		return
	}
	httputil.RespondJSON(w, http.StatusOK, caps)
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
