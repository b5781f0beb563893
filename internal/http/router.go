package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tabrewind/internal/bookmarks"
	"tabrewind/internal/browser"
	"tabrewind/internal/category"
	"tabrewind/internal/handlers"
	"tabrewind/internal/importer"
	"tabrewind/internal/session"
	"tabrewind/internal/stats"
	"tabrewind/internal/wrapped"
)

// Deps holds dependencies for the HTTP router. Importer, Analyzer and
// Tabs are nil when the corresponding browser surface is not configured;
// their endpoints then answer 503.
type Deps struct {
	Store      stats.KV
	Session    *session.Session
	Dispatcher *session.Dispatcher
	Importer   *importer.Importer
	Analyzer   *bookmarks.Analyzer
	Builder    *wrapped.Builder
	Tabs       browser.TabService
	Resolver   *category.Resolver
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	// Add CORS middleware
	r.Use(CORS)

	importHandler := handlers.NewImportHandler(deps.Importer)
	statusHandler := handlers.NewImportStatusHandler(deps.Session)
	bookmarksHandler := handlers.NewBookmarksHandler(deps.Analyzer)
	summaryHandler := handlers.NewSummaryHandler(deps.Builder)
	wrappedHandler := handlers.NewWrappedHandler(deps.Builder)
	groupsHandler := handlers.NewTabGroupsHandler(deps.Tabs, deps.Resolver)
	eventsHandler := handlers.NewEventsHandler(deps.Dispatcher)
	resetHandler := handlers.NewResetHandler(deps.Store)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Tabs)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/events", eventsHandler)
		r.Method(http.MethodPost, "/import", importHandler)
		r.Method(http.MethodGet, "/import/status", statusHandler)
		r.Method(http.MethodPost, "/bookmarks/analyze", bookmarksHandler)
		r.Method(http.MethodGet, "/summary", summaryHandler)
		r.Method(http.MethodGet, "/wrapped", wrappedHandler)
		r.Method(http.MethodGet, "/tabs/groups", groupsHandler)
		r.Method(http.MethodDelete, "/stats/sites", resetHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
