package tabs

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"tabrewind/internal/browser"
	"tabrewind/internal/browser/mocks"
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

func loadTabStats(t *testing.T, store *storage.Store) *stats.TabStats {
	t.Helper()
	raw, err := store.Get(context.Background(), stats.KeyTabStats)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var ts stats.TabStats
	if err := json.Unmarshal(raw[stats.KeyTabStats], &ts); err != nil {
		t.Fatalf("failed to unmarshal tabStats: %v", err)
	}
	return &ts
}

func TestTracker_Refresh_ZombieClassification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTabs := mocks.NewMockTabService(ctrl)
	store := newTestStore(t)

	tracker := NewTracker(mockTabs, store, time.Hour)

	base := time.Date(2026, time.August, 29, 9, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	snapshot := []browser.OpenTab{
		{ID: "t1", URL: "https://github.com/x", Active: true},
		{ID: "t2", URL: "https://www.youtube.com/watch", Active: false},
		{ID: "t3", URL: "https://news.ycombinator.com/", Active: false},
	}
	mockTabs.EXPECT().OpenTabs(gomock.Any()).Return(snapshot, nil).AnyTimes()

	// First refresh: everything was just observed, nothing is a zombie.
	if err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	got := loadTabStats(t, store)
	if got.CurrentTabsOpen != 3 || got.MaxTabsOpen != 3 {
		t.Errorf("counts = %d/%d, want 3/3", got.CurrentTabsOpen, got.MaxTabsOpen)
	}
	if len(got.ZombieTabs) != 0 {
		t.Errorf("fresh tabs classified as zombies: %+v", got.ZombieTabs)
	}

	// 59 minutes later the inactive tabs are still under the threshold.
	now = base.Add(59 * time.Minute)
	if err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := loadTabStats(t, store); len(got.ZombieTabs) != 0 {
		t.Errorf("at 59m got %d zombies, want 0", len(got.ZombieTabs))
	}

	// Just past one hour after their last activity, t2 and t3 are
	// zombies; t1 keeps getting refreshed because it is active.
	now = base.Add(61 * time.Minute)
	if err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	got = loadTabStats(t, store)
	if len(got.ZombieTabs) != 2 {
		t.Fatalf("at 61m got %d zombies, want 2: %+v", len(got.ZombieTabs), got.ZombieTabs)
	}
	for _, z := range got.ZombieTabs {
		if z.Domain != "youtube.com" && z.Domain != "news.ycombinator.com" {
			t.Errorf("unexpected zombie domain %q", z.Domain)
		}
		if z.InactiveTime != (61 * time.Minute).Milliseconds() {
			t.Errorf("zombie inactiveTime = %d, want %d", z.InactiveTime, (61 * time.Minute).Milliseconds())
		}
		if z.OpenTime != (61 * time.Minute).Milliseconds() {
			t.Errorf("zombie openTime = %d, want %d", z.OpenTime, (61 * time.Minute).Milliseconds())
		}
	}
}

func TestTracker_Refresh_RemovesClosedTabs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTabs := mocks.NewMockTabService(ctrl)
	store := newTestStore(t)
	tracker := NewTracker(mockTabs, store, time.Hour)

	base := time.Date(2026, time.August, 29, 9, 0, 0, 0, time.UTC)
	now := base
	tracker.now = func() time.Time { return now }

	mockTabs.EXPECT().OpenTabs(gomock.Any()).Return([]browser.OpenTab{
		{ID: "t1", URL: "https://example.com/", Active: true},
		{ID: "t2", URL: "https://example.org/", Active: false},
	}, nil)
	if err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	// t2 disappears from the snapshot: it must leave the liveness map
	// and can never become a zombie afterwards.
	now = base.Add(2 * time.Hour)
	mockTabs.EXPECT().OpenTabs(gomock.Any()).Return([]browser.OpenTab{
		{ID: "t1", URL: "https://example.com/", Active: true},
	}, nil)
	if err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	got := loadTabStats(t, store)
	if got.CurrentTabsOpen != 1 {
		t.Errorf("CurrentTabsOpen = %d, want 1", got.CurrentTabsOpen)
	}
	if got.MaxTabsOpen != 2 {
		t.Errorf("MaxTabsOpen = %d, want 2 (monotonic)", got.MaxTabsOpen)
	}
	if len(got.ZombieTabs) != 0 {
		t.Errorf("closed tab leaked into zombies: %+v", got.ZombieTabs)
	}

	if _, ok := tracker.open["t2"]; ok {
		t.Error("closed tab still tracked in liveness map")
	}
}

func TestTracker_Forget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTabs := mocks.NewMockTabService(ctrl)
	store := newTestStore(t)
	tracker := NewTracker(mockTabs, store, time.Hour)

	mockTabs.EXPECT().OpenTabs(gomock.Any()).Return([]browser.OpenTab{
		{ID: "t1", URL: "https://example.com/", Active: true},
	}, nil)
	if err := tracker.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	tracker.Forget("t1")
	if _, ok := tracker.open["t1"]; ok {
		t.Error("Forget() left the tab in the liveness map")
	}
}
