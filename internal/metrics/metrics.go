// Package metrics exposes process-wide Prometheus instruments for the
// aggregation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsRecorded counts navigation events folded into the rollups.
	EventsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabrewind_events_recorded_total",
		Help: "The total number of navigation events folded into the aggregate tables",
	})

	// ImportsTotal counts history import runs, partitioned by outcome status.
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabrewind_history_imports_total",
		Help: "The total number of history import runs, partitioned by status",
	}, []string{"status"})

	// EntriesImported counts history entries replayed into the rollups.
	EntriesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabrewind_history_entries_imported_total",
		Help: "The total number of history entries replayed into the aggregate tables",
	})

	// OpenTabs tracks the open tab count from the latest snapshot.
	OpenTabs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tabrewind_open_tabs",
		Help: "Open tab count as of the latest liveness refresh",
	})

	// ZombieTabs tracks the zombie count from the latest snapshot.
	ZombieTabs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tabrewind_zombie_tabs",
		Help: "Zombie tab count as of the latest liveness refresh",
	})

	// BookmarksAnalyzed counts bookmark leaves processed per analysis pass.
	BookmarksAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabrewind_bookmarks_analyzed_total",
		Help: "The total number of bookmark leaves processed by analysis passes",
	})
)
