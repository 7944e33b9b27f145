package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	store  Pinger // nil disables the store check
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. Pass a nil store to skip the
// store connectivity check.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// HealthCheck responds with a JSON status. When a store is configured the
// response includes its reachability; an unreachable store degrades the
// status to 503.
// GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.store != nil {
		if err := h.store.Health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "handler: store health check failed",
				slog.String("error", err.Error()),
			)
			resp["status"] = "degraded"
			resp["store"] = "unreachable"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp["store"] = "ok"
	}

	writeJSON(w, http.StatusOK, resp)
}
