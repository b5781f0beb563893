package handlers

import (
	"net/http"

	"tabrewind/internal/contextutil"
	"tabrewind/internal/wrapped"
)

// WrappedHandler serves the rendered retrospective report.
type WrappedHandler struct {
	builder *wrapped.Builder
}

// NewWrappedHandler creates a new WrappedHandler.
func NewWrappedHandler(builder *wrapped.Builder) *WrappedHandler {
	return &WrappedHandler{builder: builder}
}

// ServeHTTP handles GET /api/wrapped. The format query parameter selects
// the representation: markdown by default, html, or json for the raw
// summary payload.
func (h *WrappedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	summary, err := h.builder.BuildSummary(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build report", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	switch r.URL.Query().Get("format") {
	case "json":
		writeJSON(ctx, w, http.StatusOK, summary)

	case "html":
		html, err := h.builder.RenderHTML(summary)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render report", "error", err)
			writeError(ctx, w, http.StatusInternalServerError, "Failed to render report")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))

	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(h.builder.RenderMarkdown(summary)))
	}
}
