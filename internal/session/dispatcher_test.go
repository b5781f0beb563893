package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tabrewind/internal/category"
	"tabrewind/internal/stats"
	"tabrewind/internal/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := storage.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	return storage.NewStore(db)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *storage.Store) {
	t.Helper()
	store := newTestStore(t)
	resolver, err := category.NewResolver()
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	agg := stats.NewAggregator(store, resolver)
	return NewDispatcher(New(), agg, nil), store
}

func loadSites(t *testing.T, store *storage.Store) map[string]*stats.SiteAggregate {
	t.Helper()
	raw, err := store.Get(context.Background(), stats.KeySiteStats)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	sites := map[string]*stats.SiteAggregate{}
	if data, ok := raw[stats.KeySiteStats]; ok {
		if err := json.Unmarshal(data, &sites); err != nil {
			t.Fatalf("failed to unmarshal siteStats: %v", err)
		}
	}
	return sites
}

func TestDispatcher_TabSwitchFlushesInterval(t *testing.T) {
	d, store := newTestDispatcher(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	d.handle(ctx, NavEvent{Kind: TabActivated, TabID: "t1", URL: "https://github.com/x"})

	// Nothing recorded while the interval is still open.
	if sites := loadSites(t, store); len(sites) != 0 {
		t.Fatalf("open interval already recorded: %+v", sites)
	}

	now = base.Add(90 * time.Second)
	d.handle(ctx, NavEvent{Kind: TabActivated, TabID: "t2", URL: "https://example.com/"})

	sites := loadSites(t, store)
	gh, ok := sites["github.com"]
	if !ok {
		t.Fatalf("github.com not recorded after tab switch: %+v", sites)
	}
	if gh.Visits != 1 {
		t.Errorf("Visits = %d, want 1", gh.Visits)
	}
	if gh.TotalTime != (90 * time.Second).Milliseconds() {
		t.Errorf("TotalTime = %d, want %d", gh.TotalTime, (90*time.Second).Milliseconds())
	}

	// The new interval belongs to t2 now.
	tabID, url, start := d.session.current()
	if tabID != "t2" || url != "https://example.com/" || !start.Equal(now) {
		t.Errorf("current = (%q, %q, %v), want t2 interval", tabID, url, start)
	}
}

func TestDispatcher_TabUpdated(t *testing.T) {
	d, store := newTestDispatcher(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	d.handle(ctx, NavEvent{Kind: TabActivated, TabID: "t1", URL: "https://github.com/x"})

	// An update for a different tab must not close the interval.
	now = base.Add(30 * time.Second)
	d.handle(ctx, NavEvent{Kind: TabUpdated, TabID: "t9", URL: "https://example.org/"})
	if sites := loadSites(t, store); len(sites) != 0 {
		t.Fatalf("background tab update closed the interval: %+v", sites)
	}

	// An empty URL (load progress on the same tab) must not either.
	d.handle(ctx, NavEvent{Kind: TabUpdated, TabID: "t1"})
	if sites := loadSites(t, store); len(sites) != 0 {
		t.Fatalf("empty-URL update closed the interval: %+v", sites)
	}

	// In-tab navigation closes the old interval and opens a new one.
	now = base.Add(60 * time.Second)
	d.handle(ctx, NavEvent{Kind: TabUpdated, TabID: "t1", URL: "https://github.com/y"})

	sites := loadSites(t, store)
	if gh := sites["github.com"]; gh == nil || gh.TotalTime != (60*time.Second).Milliseconds() {
		t.Errorf("in-tab navigation recorded %+v, want 60s on github.com", sites["github.com"])
	}
	_, url, _ := d.session.current()
	if url != "https://github.com/y" {
		t.Errorf("current URL = %q, want the new page", url)
	}
}

func TestDispatcher_TabRemoved(t *testing.T) {
	d, store := newTestDispatcher(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	d.handle(ctx, NavEvent{Kind: TabActivated, TabID: "t1", URL: "https://github.com/x"})

	now = base.Add(45 * time.Second)
	d.handle(ctx, NavEvent{Kind: TabRemoved, TabID: "t1"})

	sites := loadSites(t, store)
	if gh := sites["github.com"]; gh == nil || gh.TotalTime != (45*time.Second).Milliseconds() {
		t.Errorf("closing the current tab recorded %+v, want 45s", sites["github.com"])
	}
	if tabID, _, _ := d.session.current(); tabID != "" {
		t.Errorf("interval not cleared after removal, current tab %q", tabID)
	}

	// Removing a non-current tab is a no-op for the interval.
	d.handle(ctx, NavEvent{Kind: TabActivated, TabID: "t2", URL: "https://example.com/"})
	d.handle(ctx, NavEvent{Kind: TabRemoved, TabID: "t7"})
	if tabID, _, _ := d.session.current(); tabID != "t2" {
		t.Errorf("unrelated removal cleared the interval, current tab %q", tabID)
	}
}

func TestDispatcher_UntrackableURLNotRecorded(t *testing.T) {
	d, store := newTestDispatcher(t)
	ctx := context.Background()

	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	d.handle(ctx, NavEvent{Kind: TabActivated, TabID: "t1", URL: "chrome://newtab/"})
	now = base.Add(time.Minute)
	d.handle(ctx, NavEvent{Kind: WindowRemoved})

	if sites := loadSites(t, store); len(sites) != 0 {
		t.Errorf("internal page recorded: %+v", sites)
	}
}

func TestDispatcher_RunDrainsQueue(t *testing.T) {
	d, store := newTestDispatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Dispatch(NavEvent{Kind: TabActivated, TabID: "t1", URL: "https://example.com/"})
	d.Dispatch(NavEvent{Kind: WindowRemoved})

	deadline := time.After(5 * time.Second)
	for {
		if sites := loadSites(t, store); len(sites) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("dispatcher never recorded the interval")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
