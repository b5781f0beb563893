package handlers

import (
	"net/http"

	"tabrewind/internal/bookmarks"
	"tabrewind/internal/contextutil"
)

// BookmarksHandler handles HTTP requests to re-run bookmark analysis.
type BookmarksHandler struct {
	analyzer *bookmarks.Analyzer
}

// NewBookmarksHandler creates a new BookmarksHandler. analyzer may be
// nil when the bookmarks file is not configured.
func NewBookmarksHandler(analyzer *bookmarks.Analyzer) *BookmarksHandler {
	return &BookmarksHandler{analyzer: analyzer}
}

// BookmarksResponse represents the bookmark analysis response.
type BookmarksResponse struct {
	Analyzed int `json:"analyzed"`
}

// ServeHTTP handles POST /api/bookmarks/analyze.
func (h *BookmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.analyzer == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "Bookmarks file not configured")
		return
	}

	count, err := h.analyzer.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "bookmark analysis failed", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to analyze bookmarks")
		return
	}

	writeJSON(ctx, w, http.StatusOK, BookmarksResponse{Analyzed: count})
}
