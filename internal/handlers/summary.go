package handlers

import (
	"net/http"

	"tabrewind/internal/contextutil"
	"tabrewind/internal/wrapped"
)

// SummaryHandler serves the popup summary payload.
type SummaryHandler struct {
	builder *wrapped.Builder
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(builder *wrapped.Builder) *SummaryHandler {
	return &SummaryHandler{builder: builder}
}

// ServeHTTP handles GET /api/summary.
func (h *SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	summary, err := h.builder.BuildSummary(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build summary", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	writeJSON(ctx, w, http.StatusOK, summary)
}
