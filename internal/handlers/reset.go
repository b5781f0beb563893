package handlers

import (
	"net/http"

	"tabrewind/internal/contextutil"
	"tabrewind/internal/stats"
)

// ResetHandler clears the per-site table. The rollup tables are kept;
// only the site breakdown is wiped, matching the clear-data action of
// the popup UI.
type ResetHandler struct {
	store stats.KV
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(store stats.KV) *ResetHandler {
	return &ResetHandler{store: store}
}

// ResetResponse represents the reset acknowledgement.
type ResetResponse struct {
	Cleared bool `json:"cleared"`
}

// ServeHTTP handles DELETE /api/stats/sites.
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	err := h.store.Set(ctx, map[string]any{
		stats.KeySiteStats: map[string]*stats.SiteAggregate{},
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to clear site stats", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to clear site stats")
		return
	}

	logger.InfoContext(ctx, "site stats cleared")
	writeJSON(ctx, w, http.StatusOK, ResetResponse{Cleared: true})
}
