package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tabrewind/internal/category"
	"tabrewind/internal/metrics"
)

// Aggregator folds browsing events into the seven rollup tables:
// per-site, the four period buckets, per-category and hourly activity.
//
// A RecordEvent call is one read-modify-write round trip against the
// store; all seven tables go back in a single Set. Concurrent callers
// are not serialized at the store level, so two interleaved calls can
// lose one update. Navigation events are serialized upstream by the
// dispatcher, which is what keeps this acceptable in practice.
type Aggregator struct {
	store    KV
	resolver *category.Resolver
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator over the shared store.
func NewAggregator(store KV, resolver *category.Resolver) *Aggregator {
	return &Aggregator{
		store:    store,
		resolver: resolver,
		logger:   slog.Default(),
	}
}

var aggregateKeys = []string{
	KeySiteStats, KeyDailyStats, KeyWeeklyStats, KeyMonthlyStats,
	KeyYearlyStats, KeyCategoryStats, KeyHourlyActivity,
}

// RecordEvent folds one event for an already-trackable domain into all
// seven tables. duration is the active dwell time (zero for replayed
// history entries), visits the visit increment.
func (a *Aggregator) RecordEvent(ctx context.Context, domain string, ts time.Time, duration time.Duration, visits int64) error {
	raw, err := a.store.Get(ctx, aggregateKeys...)
	if err != nil {
		return fmt.Errorf("failed to read aggregate tables: %w", err)
	}

	sites, err := Decode(raw, KeySiteStats, map[string]*SiteAggregate{})
	if err != nil {
		return err
	}
	daily, err := Decode(raw, KeyDailyStats, map[string]*PeriodBucket{})
	if err != nil {
		return err
	}
	weekly, err := Decode(raw, KeyWeeklyStats, map[string]*PeriodBucket{})
	if err != nil {
		return err
	}
	monthly, err := Decode(raw, KeyMonthlyStats, map[string]*PeriodBucket{})
	if err != nil {
		return err
	}
	yearly, err := Decode(raw, KeyYearlyStats, map[string]*PeriodBucket{})
	if err != nil {
		return err
	}
	categories, err := Decode(raw, KeyCategoryStats, map[string]*CategoryAggregate{})
	if err != nil {
		return err
	}
	hourly, err := Decode(raw, KeyHourlyActivity, HourlyActivity{})
	if err != nil {
		return err
	}

	durationMs := duration.Milliseconds()
	tsMs := Millis(ts)
	cat := a.resolver.Resolve(domain)

	// Per-site rollup. Category is resolved once, at creation.
	agg, ok := sites[domain]
	if !ok {
		agg = &SiteAggregate{
			Domain:        domain,
			LastVisit:     tsMs,
			Category:      cat.ID,
			CategoryName:  cat.Name,
			CategoryEmoji: cat.Emoji,
		}
		sites[domain] = agg
	}
	agg.Visits += visits
	agg.TotalTime += durationMs
	agg.LastVisit = max(agg.LastVisit, tsMs)

	// Period buckets.
	for _, p := range []struct {
		table map[string]*PeriodBucket
		key   string
	}{
		{daily, DayKey(ts)},
		{weekly, WeekKey(ts)},
		{monthly, MonthKey(ts)},
		{yearly, YearKey(ts)},
	} {
		bucket := BucketFor(p.table, p.key)
		entry := EntryFor(bucket, domain)
		entry.Visits += visits
		entry.Time += durationMs
		bucket.Visits += visits
		bucket.TotalTime += durationMs
	}

	// Category rollup. The site set only grows.
	catID := agg.Category
	catAgg, ok := categories[catID]
	if !ok {
		catAgg = &CategoryAggregate{
			Name:  agg.CategoryName,
			Emoji: agg.CategoryEmoji,
			Sites: []string{},
		}
		categories[catID] = catAgg
	}
	catAgg.Visits += visits
	catAgg.TotalTime += durationMs
	if !containsString(catAgg.Sites, domain) {
		catAgg.Sites = append(catAgg.Sites, domain)
	}

	hourly[HourOfDay(ts)] += durationMs

	if err := a.store.Set(ctx, map[string]any{
		KeySiteStats:      sites,
		KeyDailyStats:     daily,
		KeyWeeklyStats:    weekly,
		KeyMonthlyStats:   monthly,
		KeyYearlyStats:    yearly,
		KeyCategoryStats:  categories,
		KeyHourlyActivity: hourly,
	}); err != nil {
		return fmt.Errorf("failed to write aggregate tables: %w", err)
	}

	metrics.EventsRecorded.Inc()
	a.logger.DebugContext(ctx, "event recorded",
		"domain", domain, "duration_ms", durationMs, "visits", visits, "category", catID)
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
