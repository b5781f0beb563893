package handlers

import (
	"encoding/json"
	"net/http"

	"tabrewind/internal/contextutil"
	"tabrewind/internal/session"
)

// EventsHandler accepts navigation events and feeds them to the
// dispatcher.
type EventsHandler struct {
	dispatcher *session.Dispatcher
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(dispatcher *session.Dispatcher) *EventsHandler {
	return &EventsHandler{dispatcher: dispatcher}
}

// EventAccepted represents the enqueue acknowledgement.
type EventAccepted struct {
	Queued bool `json:"queued"`
}

// ServeHTTP handles POST /api/events. Events are queued and processed
// asynchronously in arrival order, so the response is 202.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var ev session.NavEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch ev.Kind {
	case session.TabActivated, session.TabUpdated, session.TabRemoved, session.WindowRemoved:
	default:
		writeError(ctx, w, http.StatusBadRequest, "Unknown event kind")
		return
	}
	if (ev.Kind == session.TabActivated || ev.Kind == session.TabUpdated || ev.Kind == session.TabRemoved) && ev.TabID == "" {
		writeError(ctx, w, http.StatusBadRequest, "tabId is required")
		return
	}

	h.dispatcher.Dispatch(ev)
	writeJSON(ctx, w, http.StatusAccepted, EventAccepted{Queued: true})
}
