// Package importer replays navigation history through the aggregation
// tables in bulk.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tabrewind/internal/browser"
	"tabrewind/internal/category"
	"tabrewind/internal/metrics"
	"tabrewind/internal/site"
	"tabrewind/internal/stats"
)

// Import outcome statuses. Skips are statuses, never errors.
const (
	StatusCompleted      = "completed"
	StatusAlreadyRunning = "already_running"
	StatusRecentlySynced = "recently_synced"
	StatusNoHistory      = "no_history"
	StatusError          = "error"
)

// Reserved domains like "chrome" and "chrome-extension" come from
// internal browser pages and never enter the tables.
const reservedDomainPrefix = "chrome"

// Guard is the process-wide re-entrancy flag for long imports. It is
// best effort: a flag, not a lock.
type Guard interface {
	// TryBeginImport atomically takes the flag; false means an import
	// is already running.
	TryBeginImport() bool
	// EndImport releases the flag. Must run on every exit path.
	EndImport()
}

// Result is the outcome of one import run.
type Result struct {
	Status    string `json:"status"`
	Processed int    `json:"processed,omitempty"`
	RunID     string `json:"runId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Importer bulk-replays history entries into the site, daily, monthly,
// yearly and category tables. History entries carry no dwell time, so
// durations stay zero and the weekly and hourly tables are deliberately
// never touched here; only live tracking populates those.
type Importer struct {
	store    stats.KV
	history  browser.HistoryService
	resolver *category.Resolver
	guard    Guard
	logger   *slog.Logger

	window     time.Duration // how far back to search
	throttle   time.Duration // min gap between unforced runs
	maxResults int
	batchSize  int // entries per partial flush
	now        func() time.Time
}

// New creates an Importer with the production limits: 90-day window,
// one-hour throttle, 10000 entries per run, flush every 100.
func New(store stats.KV, history browser.HistoryService, resolver *category.Resolver, guard Guard) *Importer {
	return &Importer{
		store:      store,
		history:    history,
		resolver:   resolver,
		guard:      guard,
		logger:     slog.Default(),
		window:     90 * 24 * time.Hour,
		throttle:   time.Hour,
		maxResults: 10000,
		batchSize:  100,
		now:        time.Now,
	}
}

// Run performs one import. Unless force is set, a run within the
// throttle window of the last successful sync short-circuits. The
// re-entrancy flag is released on every exit path.
func (i *Importer) Run(ctx context.Context, force bool) Result {
	if !i.guard.TryBeginImport() {
		return Result{Status: StatusAlreadyRunning}
	}
	defer i.guard.EndImport()

	runID := uuid.New().String()
	logger := i.logger.With("run_id", runID)
	result := i.run(ctx, logger, force)
	result.RunID = runID

	metrics.ImportsTotal.WithLabelValues(result.Status).Inc()
	logger.InfoContext(ctx, "history import finished",
		"status", result.Status, "processed", result.Processed)
	return result
}

func (i *Importer) run(ctx context.Context, logger *slog.Logger, force bool) Result {
	now := i.now()

	raw, err := i.store.Get(ctx,
		stats.KeyLastHistorySync, stats.KeySiteStats, stats.KeyDailyStats,
		stats.KeyMonthlyStats, stats.KeyYearlyStats, stats.KeyCategoryStats)
	if err != nil {
		return errorResult(err)
	}

	lastSync, err := stats.Decode(raw, stats.KeyLastHistorySync, int64(0))
	if err != nil {
		return errorResult(err)
	}
	if !force && now.Sub(stats.FromMillis(lastSync)) < i.throttle {
		return Result{Status: StatusRecentlySynced}
	}

	since := now.Add(-i.window)
	logger.InfoContext(ctx, "fetching history", "since", since, "max_results", i.maxResults)
	entries, err := i.history.Search(ctx, since, i.maxResults)
	if err != nil {
		return errorResult(fmt.Errorf("failed to search history: %w", err))
	}
	if len(entries) == 0 {
		return Result{Status: StatusNoHistory}
	}

	sites, err := stats.Decode(raw, stats.KeySiteStats, map[string]*stats.SiteAggregate{})
	if err != nil {
		return errorResult(err)
	}
	daily, err := stats.Decode(raw, stats.KeyDailyStats, map[string]*stats.PeriodBucket{})
	if err != nil {
		return errorResult(err)
	}
	monthly, err := stats.Decode(raw, stats.KeyMonthlyStats, map[string]*stats.PeriodBucket{})
	if err != nil {
		return errorResult(err)
	}
	yearly, err := stats.Decode(raw, stats.KeyYearlyStats, map[string]*stats.PeriodBucket{})
	if err != nil {
		return errorResult(err)
	}
	categories, err := stats.Decode(raw, stats.KeyCategoryStats, map[string]*stats.CategoryAggregate{})
	if err != nil {
		return errorResult(err)
	}

	tables := map[string]any{
		stats.KeySiteStats:     sites,
		stats.KeyDailyStats:    daily,
		stats.KeyMonthlyStats:  monthly,
		stats.KeyYearlyStats:   yearly,
		stats.KeyCategoryStats: categories,
	}

	processed := 0
	for _, entry := range entries {
		domain := site.Extract(entry.URL)
		if !site.Trackable(domain) || strings.HasPrefix(domain, reservedDomainPrefix) {
			continue
		}

		i.fold(sites, daily, monthly, yearly, categories, domain, entry, now)
		processed++

		// Partial flush bounds data loss on long imports.
		if processed%i.batchSize == 0 {
			if err := i.store.Set(ctx, tables); err != nil {
				return errorResult(fmt.Errorf("failed to flush import batch: %w", err))
			}
			logger.DebugContext(ctx, "import progress flushed",
				"processed", processed, "total", len(entries))
		}
	}

	final := map[string]any{stats.KeyLastHistorySync: stats.Millis(now)}
	for k, v := range tables {
		final[k] = v
	}
	if err := i.store.Set(ctx, final); err != nil {
		return errorResult(fmt.Errorf("failed to write final import state: %w", err))
	}

	metrics.EntriesImported.Add(float64(processed))
	return Result{Status: StatusCompleted, Processed: processed}
}

// fold applies one history entry. Visits only: durations are unknown
// for history, so time accumulators stay untouched.
func (i *Importer) fold(
	sites map[string]*stats.SiteAggregate,
	daily, monthly, yearly map[string]*stats.PeriodBucket,
	categories map[string]*stats.CategoryAggregate,
	domain string,
	entry browser.HistoryEntry,
	now time.Time,
) {
	visits := entry.VisitCount
	if visits <= 0 {
		visits = 1
	}
	visitTime := entry.LastVisitTime
	if visitTime == 0 {
		visitTime = stats.Millis(now)
	}
	ts := stats.FromMillis(visitTime)
	cat := i.resolver.Resolve(domain)

	agg, ok := sites[domain]
	if !ok {
		agg = &stats.SiteAggregate{
			Domain:        domain,
			LastVisit:     visitTime,
			Category:      cat.ID,
			CategoryName:  cat.Name,
			CategoryEmoji: cat.Emoji,
			FromHistory:   true,
		}
		sites[domain] = agg
	}
	agg.Visits += visits
	agg.LastVisit = max(agg.LastVisit, visitTime)

	for _, p := range []struct {
		table map[string]*stats.PeriodBucket
		key   string
	}{
		{daily, stats.DayKey(ts)},
		{monthly, stats.MonthKey(ts)},
		{yearly, stats.YearKey(ts)},
	} {
		bucket := stats.BucketFor(p.table, p.key)
		stats.EntryFor(bucket, domain).Visits += visits
		bucket.Visits += visits
	}

	catAgg, ok := categories[cat.ID]
	if !ok {
		catAgg = &stats.CategoryAggregate{Name: cat.Name, Emoji: cat.Emoji, Sites: []string{}}
		categories[cat.ID] = catAgg
	}
	catAgg.Visits += visits
	if !containsString(catAgg.Sites, domain) {
		catAgg.Sites = append(catAgg.Sites, domain)
	}
}

func errorResult(err error) Result {
	return Result{Status: StatusError, Message: err.Error()}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
