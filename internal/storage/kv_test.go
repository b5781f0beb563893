package storage

import (
	"context"
	"encoding/json"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/test.db"

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return NewStore(db)
}

func TestStore_GetMissingKeys(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "siteStats", "tabStats")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get() on empty store returned %d entries, want 0", len(got))
	}
}

func TestStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Set(ctx, map[string]any{
		"siteStats":       map[string]int{"example.com": 3},
		"lastHistorySync": int64(12345),
	})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "siteStats", "lastHistorySync", "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Get() returned %d entries, want 2", len(got))
	}
	if _, ok := got["missing"]; ok {
		t.Error("Get() returned entry for key that was never set")
	}

	var sites map[string]int
	if err := json.Unmarshal(got["siteStats"], &sites); err != nil {
		t.Fatalf("failed to unmarshal siteStats: %v", err)
	}
	if sites["example.com"] != 3 {
		t.Errorf("siteStats[example.com] = %d, want 3", sites["example.com"])
	}
}

func TestStore_SetLastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, v := range []int64{1, 2, 3} {
		if err := store.Set(ctx, map[string]any{"lastHistorySync": v}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	got, err := store.Get(ctx, "lastHistorySync")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var cursor int64
	if err := json.Unmarshal(got["lastHistorySync"], &cursor); err != nil {
		t.Fatalf("failed to unmarshal cursor: %v", err)
	}
	if cursor != 3 {
		t.Errorf("lastHistorySync = %d, want 3 (last write wins)", cursor)
	}
}

func TestStore_SetEmpty(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set(context.Background(), nil); err != nil {
		t.Errorf("Set(nil) error = %v, want nil", err)
	}
}
