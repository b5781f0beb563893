package handlers

import (
	"net/http"

	"tabrewind/internal/session"
)

// ImportStatusHandler reports whether an import is currently running.
type ImportStatusHandler struct {
	session *session.Session
}

// NewImportStatusHandler creates a new ImportStatusHandler.
func NewImportStatusHandler(sess *session.Session) *ImportStatusHandler {
	return &ImportStatusHandler{session: sess}
}

// ImportStatusResponse represents the import status response.
type ImportStatusResponse struct {
	IsImporting bool `json:"isImporting"`
}

// ServeHTTP handles GET /api/import/status.
func (h *ImportStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, ImportStatusResponse{
		IsImporting: h.session.Importing(),
	})
}
