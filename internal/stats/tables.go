package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Storage keys for the shared persisted tables.
const (
	KeySiteStats        = "siteStats"
	KeyDailyStats       = "dailyStats"
	KeyWeeklyStats      = "weeklyStats"
	KeyMonthlyStats     = "monthlyStats"
	KeyYearlyStats      = "yearlyStats"
	KeyCategoryStats    = "categoryStats"
	KeyHourlyActivity   = "hourlyActivity"
	KeyBookmarkStats    = "bookmarkStats"
	KeyTabStats         = "tabStats"
	KeyFirstInstallDate = "firstInstallDate"
	KeyLastHistorySync  = "lastHistorySync"
)

// KV is the subset of the persistence store the aggregation engine
// needs: partial multi-key reads and last-write-wins multi-key writes.
// Whatever set of keys goes into one Set call is the unit of atomicity.
type KV interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, values map[string]any) error
}

// Decode unmarshals one table out of a Get result, falling back to the
// given default when the key is absent. This is the single
// get-or-default path shared by every table; per-table default
// construction lives in the callers' fallback values.
func Decode[T any](raw map[string]json.RawMessage, key string, fallback T) (T, error) {
	data, ok := raw[key]
	if !ok || len(data) == 0 || string(data) == "null" {
		return fallback, nil
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return fallback, fmt.Errorf("failed to decode table %s: %w", key, err)
	}
	return out, nil
}

// BucketFor returns the bucket for a period key, creating an empty one
// in place when absent.
func BucketFor(table map[string]*PeriodBucket, key string) *PeriodBucket {
	b, ok := table[key]
	if !ok {
		b = &PeriodBucket{Sites: make(map[string]*SiteEntry)}
		table[key] = b
	}
	if b.Sites == nil {
		b.Sites = make(map[string]*SiteEntry)
	}
	return b
}

// EntryFor returns the per-site entry of a bucket, creating a zero entry
// in place when absent.
func EntryFor(b *PeriodBucket, domain string) *SiteEntry {
	e, ok := b.Sites[domain]
	if !ok {
		e = &SiteEntry{}
		b.Sites[domain] = e
	}
	return e
}

// EnsureDefaults seeds any missing tables with their zero shapes and
// records the first install date once. Safe to call on every startup.
func EnsureDefaults(ctx context.Context, store KV, now time.Time) error {
	keys := []string{
		KeySiteStats, KeyDailyStats, KeyWeeklyStats, KeyMonthlyStats,
		KeyYearlyStats, KeyCategoryStats, KeyHourlyActivity,
		KeyBookmarkStats, KeyTabStats, KeyFirstInstallDate, KeyLastHistorySync,
	}
	raw, err := store.Get(ctx, keys...)
	if err != nil {
		return fmt.Errorf("failed to read tables: %w", err)
	}

	defaults := map[string]any{
		KeySiteStats:        map[string]*SiteAggregate{},
		KeyDailyStats:       map[string]*PeriodBucket{},
		KeyWeeklyStats:      map[string]*PeriodBucket{},
		KeyMonthlyStats:     map[string]*PeriodBucket{},
		KeyYearlyStats:      map[string]*PeriodBucket{},
		KeyCategoryStats:    map[string]*CategoryAggregate{},
		KeyHourlyActivity:   HourlyActivity{},
		KeyBookmarkStats:    map[string]*BookmarkAggregate{},
		KeyTabStats:         &TabStats{ZombieTabs: []ZombieTab{}},
		KeyFirstInstallDate: Millis(now),
		KeyLastHistorySync:  int64(0),
	}

	missing := make(map[string]any)
	for key, def := range defaults {
		if data, ok := raw[key]; !ok || len(data) == 0 || string(data) == "null" {
			missing[key] = def
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if err := store.Set(ctx, missing); err != nil {
		return fmt.Errorf("failed to seed tables: %w", err)
	}
	return nil
}
