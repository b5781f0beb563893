package handlers

import (
	"context"
	"net/http"
	"time"

	"tabrewind/internal/browser"
	"tabrewind/internal/contextutil"
	"tabrewind/internal/stats"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	store              stats.KV
	tabs               browser.TabService
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. tabs may be nil when no
// DevTools endpoint is configured; the browser check is then skipped.
func NewHealthHandler(store stats.KV, tabService browser.TabService) *HealthHandler {
	return &HealthHandler{
		store:              store,
		tabs:               tabService,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles GET /api/health. The store is the critical
// dependency: a store failure is unhealthy (503). A missing browser only
// degrades the status, since tracking keeps working on the stored data.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if _, err := h.store.Get(checkCtx, stats.KeyFirstInstallDate); err != nil {
		logger.WarnContext(ctx, "store health check failed", "error", err)
		checks["store"] = "error"
		issues = append(issues, "store_unavailable")
	} else {
		checks["store"] = "ok"
	}

	browserDown := false
	if h.tabs != nil {
		if _, err := h.tabs.OpenTabs(checkCtx); err != nil {
			logger.WarnContext(ctx, "browser health check failed", "error", err)
			checks["browser"] = "error"
			issues = append(issues, "browser_unavailable")
			browserDown = true
		} else {
			checks["browser"] = "ok"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case checks["store"] == "error":
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case browserDown:
		status = "degraded"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if len(issues) > 0 {
		response.Issues = issues
	}

	writeJSON(ctx, w, httpStatus, response)
}
