package api

import (
	"net/http"

	"github.com/okian/swaggerui/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status       string `json:"status"`
	CachedAssets int    `json:"cached_assets"`
	CachedBytes  int64  `json:"cached_bytes"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	resp := healthResponse{Status: "ok"}
	if h.deps != nil {
		resp.CachedAssets = h.deps.Len()
		resp.CachedBytes = h.deps.Size()
	}
	writeJSON(w, http.StatusOK, resp)
}

// MetricsHandler serves the custom Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
