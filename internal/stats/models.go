package stats

// Persisted aggregate shapes. JSON field names are part of the stored
// layout and must stay stable across releases.

// SiteAggregate is the running total for one canonical domain.
type SiteAggregate struct {
	Domain        string `json:"domain"`
	Visits        int64  `json:"visits"`
	TotalTime     int64  `json:"totalTime"` // milliseconds
	LastVisit     int64  `json:"lastVisit"` // epoch milliseconds, max over updates
	Category      string `json:"category"`
	CategoryName  string `json:"categoryName"`
	CategoryEmoji string `json:"categoryEmoji"`
	// FromHistory marks sites first seen through history import rather
	// than live tracking.
	FromHistory bool `json:"fromHistory,omitempty"`
}

// SiteEntry is the per-site slice of a period bucket.
type SiteEntry struct {
	Visits int64 `json:"visits"`
	Time   int64 `json:"time"` // milliseconds
}

// PeriodBucket is one daily/weekly/monthly/yearly rollup. Bucket totals
// equal the sums over Sites after every update.
type PeriodBucket struct {
	Sites     map[string]*SiteEntry `json:"sites"`
	TotalTime int64                 `json:"totalTime"`
	Visits    int64                 `json:"visits"`
}

// CategoryAggregate is the running total for one category. Sites holds
// every domain ever seen in the category, unique and unordered.
type CategoryAggregate struct {
	Name      string   `json:"name"`
	Emoji     string   `json:"emoji"`
	TotalTime int64    `json:"totalTime"`
	Visits    int64    `json:"visits"`
	Sites     []string `json:"sites"`
}

// HourlyActivity accumulates active milliseconds per local hour of day.
type HourlyActivity [24]int64

// ZombieTab describes one open tab that has been inactive past the
// zombie threshold. Durations are milliseconds.
type ZombieTab struct {
	Domain       string `json:"domain"`
	OpenTime     int64  `json:"openTime"`
	InactiveTime int64  `json:"inactiveTime"`
}

// TabStats is the persisted tab summary. ZombieTabs and CurrentTabsOpen
// are fully replaced on every refresh; MaxTabsOpen only grows.
type TabStats struct {
	MaxTabsOpen     int         `json:"maxTabsOpen"`
	CurrentTabsOpen int         `json:"currentTabsOpen"`
	ZombieTabs      []ZombieTab `json:"zombieTabs"`
}

// BookmarkAggregate is the per-domain bookmark summary, recomputed from
// scratch on every bookmark analysis pass.
type BookmarkAggregate struct {
	Domain      string `json:"domain"`
	Count       int    `json:"count"`
	LastOpened  *int64 `json:"lastOpened"` // epoch milliseconds, nil if never
	NeverOpened bool   `json:"neverOpened"`
}
