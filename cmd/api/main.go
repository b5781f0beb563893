package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tabrewind/internal/bookmarks"
	"tabrewind/internal/browser"
	"tabrewind/internal/browser/chrome"
	"tabrewind/internal/category"
	"tabrewind/internal/config"
	"tabrewind/internal/http"
	"tabrewind/internal/importer"
	"tabrewind/internal/session"
	"tabrewind/internal/stats"
	"tabrewind/internal/storage"
	"tabrewind/internal/tabs"
	"tabrewind/internal/wrapped"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	store := storage.NewStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := stats.EnsureDefaults(ctx, store, time.Now()); err != nil {
		log.Fatalf("Failed to seed tables: %v", err)
	}

	// Category table: built-in unless an override file is configured
	var resolver *category.Resolver
	if cfg.CategoriesPath != "" {
		resolver, err = category.NewResolverFromFile(cfg.CategoriesPath)
	} else {
		resolver, err = category.NewResolver()
	}
	if err != nil {
		log.Fatalf("Failed to load category table: %v", err)
	}
	slog.Info("Category table loaded", "categories", len(resolver.Categories()))

	sess := session.New()
	aggregator := stats.NewAggregator(store, resolver)

	// Browser surfaces are optional; each one missing just disables its
	// slice of the service.
	var (
		imp      *importer.Importer
		analyzer *bookmarks.Analyzer
		tabSvc   browser.TabService
		tracker  *tabs.Tracker
	)
	if cfg.ChromeProfileDir != "" {
		imp = importer.New(store, chrome.NewHistoryReader(cfg.ChromeProfileDir), resolver, sess)
		analyzer = bookmarks.NewAnalyzer(store, chrome.NewBookmarkReader(cfg.ChromeProfileDir))
		slog.Info("Chrome profile configured", "dir", cfg.ChromeProfileDir)
	} else {
		slog.Warn("No Chrome profile configured, history import and bookmark analysis disabled")
	}
	if cfg.DevToolsURL != "" {
		tabSvc = chrome.NewTabInspector(cfg.DevToolsURL)
		tracker = tabs.NewTracker(tabSvc, store, cfg.ZombieThreshold)
		slog.Info("DevTools endpoint configured", "url", cfg.DevToolsURL)
	} else {
		slog.Warn("No DevTools endpoint configured, live tab tracking disabled")
	}

	dispatcher := session.NewDispatcher(sess, aggregator, tracker)
	go dispatcher.Run(ctx)

	scheduler := session.NewScheduler(store, tracker, imp)
	go scheduler.Run(ctx)

	// Create router with dependencies
	deps := &http.Deps{
		Store:      store,
		Session:    sess,
		Dispatcher: dispatcher,
		Importer:   imp,
		Analyzer:   analyzer,
		Builder:    wrapped.NewBuilder(store),
		Tabs:       tabSvc,
		Resolver:   resolver,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("Server stopped")
}
