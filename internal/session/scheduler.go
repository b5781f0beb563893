package session

import (
	"context"
	"log/slog"
	"time"

	"tabrewind/internal/importer"
	"tabrewind/internal/stats"
	"tabrewind/internal/tabs"
)

// Default scheduler cadence.
const (
	DefaultTabRefreshInterval  = 5 * time.Minute
	DefaultHistorySyncInterval = 6 * time.Hour
)

// Scheduler drives the periodic background work: tab-stats refreshes and
// history syncs. Either dependency may be nil when the corresponding
// browser surface is unavailable; its timer is then skipped entirely.
type Scheduler struct {
	store    stats.KV
	tracker  *tabs.Tracker
	importer *importer.Importer
	logger   *slog.Logger

	tabInterval  time.Duration
	syncInterval time.Duration
	now          func() time.Time
}

// NewScheduler creates a Scheduler with the default cadence.
func NewScheduler(store stats.KV, tracker *tabs.Tracker, imp *importer.Importer) *Scheduler {
	return &Scheduler{
		store:        store,
		tracker:      tracker,
		importer:     imp,
		logger:       slog.Default(),
		tabInterval:  DefaultTabRefreshInterval,
		syncInterval: DefaultHistorySyncInterval,
		now:          time.Now,
	}
}

// Run blocks until the context is canceled. On startup it performs a
// catch-up history sync when the cursor is older than one sync interval,
// so a process that was down over the boundary does not wait another
// full period.
func (s *Scheduler) Run(ctx context.Context) {
	if s.tracker == nil && s.importer == nil {
		s.logger.InfoContext(ctx, "scheduler idle, no browser surfaces available")
		<-ctx.Done()
		return
	}

	s.catchUp(ctx)

	tabTicker := time.NewTicker(s.tabInterval)
	defer tabTicker.Stop()
	syncTicker := time.NewTicker(s.syncInterval)
	defer syncTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tabTicker.C:
			if s.tracker == nil {
				continue
			}
			if err := s.tracker.Refresh(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled tab refresh failed", "error", err)
			}
		case <-syncTicker.C:
			s.sync(ctx)
		}
	}
}

func (s *Scheduler) catchUp(ctx context.Context) {
	if s.importer == nil {
		return
	}
	raw, err := s.store.Get(ctx, stats.KeyLastHistorySync)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read sync cursor", "error", err)
		return
	}
	lastSync, err := stats.Decode(raw, stats.KeyLastHistorySync, int64(0))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to decode sync cursor", "error", err)
		return
	}
	if s.now().Sub(stats.FromMillis(lastSync)) < s.syncInterval {
		return
	}
	s.logger.InfoContext(ctx, "sync cursor stale, catching up",
		"last_sync", stats.FromMillis(lastSync))
	s.sync(ctx)
}

func (s *Scheduler) sync(ctx context.Context) {
	if s.importer == nil {
		return
	}
	result := s.importer.Run(ctx, false)
	if result.Status == importer.StatusError {
		s.logger.ErrorContext(ctx, "scheduled history sync failed", "message", result.Message)
	}
}
