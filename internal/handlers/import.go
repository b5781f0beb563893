package handlers

import (
	"net/http"
	"strings"

	"tabrewind/internal/contextutil"
	"tabrewind/internal/importer"
)

// ImportHandler handles HTTP requests to trigger a history import.
type ImportHandler struct {
	importer *importer.Importer
}

// NewImportHandler creates a new ImportHandler. importer may be nil when
// the history database is not configured.
func NewImportHandler(imp *importer.Importer) *ImportHandler {
	return &ImportHandler{importer: imp}
}

// ServeHTTP handles POST /api/import. The optional force query parameter
// bypasses the sync throttle. A concurrent import maps to 409; skip
// outcomes are regular 200 results.
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if h.importer == nil {
		writeError(ctx, w, http.StatusServiceUnavailable, "History database not configured")
		return
	}

	force := false
	if param := r.URL.Query().Get("force"); param != "" {
		force = strings.EqualFold(param, "true") || param == "1"
	}

	result := h.importer.Run(ctx, force)

	statusCode := http.StatusOK
	switch result.Status {
	case importer.StatusAlreadyRunning:
		statusCode = http.StatusConflict
	case importer.StatusError:
		statusCode = http.StatusInternalServerError
		logger.ErrorContext(ctx, "import failed", "message", result.Message)
	}

	writeJSON(ctx, w, statusCode, result)
}
