package handlers

import (
	"net/http"

	"tabrewind/internal/browser"
	"tabrewind/internal/category"
	"tabrewind/internal/contextutil"
	"tabrewind/internal/tabs"
)

// TabGroupsHandler serves tab-group suggestions for the open tabs.
type TabGroupsHandler struct {
	tabs     browser.TabService
	resolver *category.Resolver
}

// NewTabGroupsHandler creates a new TabGroupsHandler. tabs may be nil
// when no DevTools endpoint is configured.
func NewTabGroupsHandler(tabService browser.TabService, resolver *category.Resolver) *TabGroupsHandler {
	return &TabGroupsHandler{tabs: tabService, resolver: resolver}
}

// TabGroupsResponse represents the tab-group suggestion response.
type TabGroupsResponse struct {
	Groups []tabs.GroupSuggestion `json:"groups"`
}

// ServeHTTP handles GET /api/tabs/groups.
func (h *TabGroupsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.tabs == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "Browser DevTools not configured")
		return
	}

	suggestions, err := tabs.SuggestGroups(ctx, h.tabs, h.resolver)
	if err != nil {
		logger.ErrorContext(ctx, "failed to suggest tab groups", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Failed to inspect open tabs")
		return
	}

	writeJSON(ctx, w, http.StatusOK, TabGroupsResponse{Groups: suggestions})
}
