// Package tabs tracks the liveness of open tabs and derives the
// persisted tab summary, including zombie detection.
package tabs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tabrewind/internal/browser"
	"tabrewind/internal/metrics"
	"tabrewind/internal/site"
	"tabrewind/internal/stats"
)

// DefaultZombieThreshold is how long a tab may stay inactive before it
// is classified as a zombie.
const DefaultZombieThreshold = time.Hour

// openTabEntry is the in-memory liveness record for one tab. It is
// never persisted; only the derived TabStats summary is.
type openTabEntry struct {
	url        string
	openedAt   time.Time
	lastActive time.Time
}

// Tracker maintains the open-tab map and reconciles it against live
// snapshots. The map is owned exclusively by the Tracker and never
// escapes; it is rebuilt from scratch after a process restart.
type Tracker struct {
	tabs      browser.TabService
	store     stats.KV
	threshold time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu   sync.Mutex
	open map[string]*openTabEntry
}

// NewTracker creates a Tracker with the given zombie threshold.
func NewTracker(tabs browser.TabService, store stats.KV, threshold time.Duration) *Tracker {
	if threshold <= 0 {
		threshold = DefaultZombieThreshold
	}
	return &Tracker{
		tabs:      tabs,
		store:     store,
		threshold: threshold,
		logger:    slog.Default(),
		now:       time.Now,
		open:      make(map[string]*openTabEntry),
	}
}

// Forget drops a tab from the liveness map immediately, ahead of the
// next snapshot reconciliation. Used on tab-removed events.
func (t *Tracker) Forget(tabID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.open, tabID)
}

// Refresh reconciles the liveness map against a live snapshot, derives
// the zombie list and persists the TabStats summary. The zombie list
// and current count are full replacements; max-ever only grows.
func (t *Tracker) Refresh(ctx context.Context) error {
	snapshot, err := t.tabs.OpenTabs(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot open tabs: %w", err)
	}

	now := t.now()
	zombies := t.reconcile(snapshot, now)

	raw, err := t.store.Get(ctx, stats.KeyTabStats)
	if err != nil {
		return fmt.Errorf("failed to read tab stats: %w", err)
	}
	tabStats, err := stats.Decode(raw, stats.KeyTabStats, &stats.TabStats{})
	if err != nil {
		return err
	}

	tabStats.CurrentTabsOpen = len(snapshot)
	if len(snapshot) > tabStats.MaxTabsOpen {
		tabStats.MaxTabsOpen = len(snapshot)
	}
	tabStats.ZombieTabs = zombies

	if err := t.store.Set(ctx, map[string]any{stats.KeyTabStats: tabStats}); err != nil {
		return fmt.Errorf("failed to write tab stats: %w", err)
	}

	metrics.OpenTabs.Set(float64(len(snapshot)))
	metrics.ZombieTabs.Set(float64(len(zombies)))
	if len(zombies) > 0 {
		t.logger.DebugContext(ctx, "zombie tabs detected", "count", len(zombies))
	}
	return nil
}

// reconcile updates the owned map from a snapshot and returns the
// freshly classified zombie descriptors.
func (t *Tracker) reconcile(snapshot []browser.OpenTab, now time.Time) []stats.ZombieTab {
	t.mu.Lock()
	defer t.mu.Unlock()

	alive := make(map[string]bool, len(snapshot))
	for _, tab := range snapshot {
		alive[tab.ID] = true

		entry, ok := t.open[tab.ID]
		if !ok {
			// First observation counts as activity; the zombie clock
			// starts here.
			t.open[tab.ID] = &openTabEntry{
				url:        tab.URL,
				openedAt:   now,
				lastActive: now,
			}
			continue
		}
		entry.url = tab.URL
		if tab.Active {
			entry.lastActive = now
		}
	}

	// Snapshot absence is the only other deletion path besides Forget.
	for id := range t.open {
		if !alive[id] {
			delete(t.open, id)
		}
	}

	zombies := []stats.ZombieTab{}
	for _, entry := range t.open {
		inactive := now.Sub(entry.lastActive)
		if inactive <= t.threshold {
			continue
		}
		zombies = append(zombies, stats.ZombieTab{
			Domain:       site.Extract(entry.url),
			OpenTime:     now.Sub(entry.openedAt).Milliseconds(),
			InactiveTime: inactive.Milliseconds(),
		})
	}
	return zombies
}
