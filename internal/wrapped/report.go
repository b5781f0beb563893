// Package wrapped builds the retrospective "Wrapped" report from the
// persisted tables. Everything here is read-only.
package wrapped

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"tabrewind/internal/stats"
)

const topSiteLimit = 10

// TopSite is one ranked entry in the report.
type TopSite struct {
	Domain        string `json:"domain"`
	Visits        int64  `json:"visits"`
	TotalTime     int64  `json:"totalTime"`
	CategoryEmoji string `json:"categoryEmoji"`
}

// CategorySlice is one category's share of the report.
type CategorySlice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	TotalTime int64  `json:"totalTime"`
	Visits    int64  `json:"visits"`
	SiteCount int    `json:"siteCount"`
}

// Summary is the full report payload. It backs both the popup summary
// endpoint and the rendered report.
type Summary struct {
	Since                int64           `json:"since"` // epoch ms of first install
	TotalSites           int             `json:"totalSites"`
	TotalVisits          int64           `json:"totalVisits"`
	TotalTime            int64           `json:"totalTime"` // milliseconds
	ActiveDays           int             `json:"activeDays"`
	TopSites             []TopSite       `json:"topSites"`
	Categories           []CategorySlice `json:"categories"`
	PeakHour             int             `json:"peakHour"`
	MaxTabsOpen          int             `json:"maxTabsOpen"`
	CurrentTabsOpen      int             `json:"currentTabsOpen"`
	ZombieTabs           int             `json:"zombieTabs"`
	NeverOpenedBookmarks int             `json:"neverOpenedBookmarks"`
}

// Builder assembles summaries and renders them.
type Builder struct {
	store    stats.KV
	logger   *slog.Logger
	markdown goldmark.Markdown
}

// NewBuilder creates a Builder.
func NewBuilder(store stats.KV) *Builder {
	return &Builder{
		store:  store,
		logger: slog.Default(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// BuildSummary reads the tables and computes the report. Totals are
// derived from the site table; the period buckets only contribute the
// active-day count.
func (b *Builder) BuildSummary(ctx context.Context) (*Summary, error) {
	raw, err := b.store.Get(ctx,
		stats.KeySiteStats, stats.KeyDailyStats, stats.KeyCategoryStats,
		stats.KeyHourlyActivity, stats.KeyTabStats, stats.KeyBookmarkStats,
		stats.KeyFirstInstallDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}

	sites, err := stats.Decode(raw, stats.KeySiteStats, map[string]*stats.SiteAggregate{})
	if err != nil {
		return nil, err
	}
	daily, err := stats.Decode(raw, stats.KeyDailyStats, map[string]*stats.PeriodBucket{})
	if err != nil {
		return nil, err
	}
	categories, err := stats.Decode(raw, stats.KeyCategoryStats, map[string]*stats.CategoryAggregate{})
	if err != nil {
		return nil, err
	}
	hourly, err := stats.Decode(raw, stats.KeyHourlyActivity, stats.HourlyActivity{})
	if err != nil {
		return nil, err
	}
	tabStats, err := stats.Decode(raw, stats.KeyTabStats, &stats.TabStats{})
	if err != nil {
		return nil, err
	}
	bookmarks, err := stats.Decode(raw, stats.KeyBookmarkStats, map[string]*stats.BookmarkAggregate{})
	if err != nil {
		return nil, err
	}
	since, err := stats.Decode(raw, stats.KeyFirstInstallDate, int64(0))
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Since:      since,
		TotalSites: len(sites),
		ActiveDays: len(daily),
		TopSites:   []TopSite{},
		Categories: []CategorySlice{},
	}

	ranked := make([]*stats.SiteAggregate, 0, len(sites))
	for _, agg := range sites {
		summary.TotalVisits += agg.Visits
		summary.TotalTime += agg.TotalTime
		ranked = append(ranked, agg)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalTime != ranked[j].TotalTime {
			return ranked[i].TotalTime > ranked[j].TotalTime
		}
		return ranked[i].Domain < ranked[j].Domain
	})
	for _, agg := range ranked {
		if len(summary.TopSites) == topSiteLimit {
			break
		}
		summary.TopSites = append(summary.TopSites, TopSite{
			Domain:        agg.Domain,
			Visits:        agg.Visits,
			TotalTime:     agg.TotalTime,
			CategoryEmoji: agg.CategoryEmoji,
		})
	}

	for id, agg := range categories {
		summary.Categories = append(summary.Categories, CategorySlice{
			ID:        id,
			Name:      agg.Name,
			Emoji:     agg.Emoji,
			TotalTime: agg.TotalTime,
			Visits:    agg.Visits,
			SiteCount: len(agg.Sites),
		})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].TotalTime != summary.Categories[j].TotalTime {
			return summary.Categories[i].TotalTime > summary.Categories[j].TotalTime
		}
		return summary.Categories[i].ID < summary.Categories[j].ID
	})

	// Index of the busiest hour; stays 0 when there is no activity yet.
	for hour, ms := range hourly {
		if ms > hourly[summary.PeakHour] {
			summary.PeakHour = hour
		}
	}

	if tabStats != nil {
		summary.MaxTabsOpen = tabStats.MaxTabsOpen
		summary.CurrentTabsOpen = tabStats.CurrentTabsOpen
		summary.ZombieTabs = len(tabStats.ZombieTabs)
	}
	for _, agg := range bookmarks {
		if agg.NeverOpened {
			summary.NeverOpenedBookmarks++
		}
	}

	b.logger.DebugContext(ctx, "summary built",
		"sites", summary.TotalSites, "visits", summary.TotalVisits)
	return summary, nil
}

// RenderMarkdown produces the report as markdown.
func (b *Builder) RenderMarkdown(s *Summary) string {
	var md strings.Builder
	md.WriteString("# Your Browsing Wrapped\n\n")
	if s.Since > 0 {
		md.WriteString(fmt.Sprintf("Tracking since %s.\n\n",
			stats.FromMillis(s.Since).Format("January 2, 2006")))
	}

	md.WriteString(fmt.Sprintf("You spent **%s** across **%s sites** and **%s visits**",
		FormatDuration(s.TotalTime), FormatNumber(int64(s.TotalSites)), FormatNumber(s.TotalVisits)))
	if s.ActiveDays > 0 {
		md.WriteString(fmt.Sprintf(" over **%d active days**", s.ActiveDays))
	}
	md.WriteString(".\n\n")

	if len(s.TopSites) > 0 {
		md.WriteString("## Top sites\n\n")
		medals := []string{"🥇", "🥈", "🥉"}
		limit := min(len(s.TopSites), 5)
		for i, site := range s.TopSites[:limit] {
			medal := "🏅"
			if i < len(medals) {
				medal = medals[i]
			}
			md.WriteString(fmt.Sprintf("%d. %s %s %s — %s visits, %s\n",
				i+1, medal, site.CategoryEmoji, site.Domain,
				FormatNumber(site.Visits), FormatDuration(site.TotalTime)))
		}
		md.WriteString("\n")
	}

	if len(s.Categories) > 0 {
		top := s.Categories[0]
		md.WriteString(fmt.Sprintf("## Favorite category\n\n%s **%s** with %s.\n\n",
			top.Emoji, top.Name, FormatDuration(top.TotalTime)))

		md.WriteString("| Category | Time | Visits | Sites |\n|---|---|---|---|\n")
		for _, cat := range s.Categories {
			md.WriteString(fmt.Sprintf("| %s %s | %s | %s | %d |\n",
				cat.Emoji, cat.Name, FormatDuration(cat.TotalTime),
				FormatNumber(cat.Visits), cat.SiteCount))
		}
		md.WriteString("\n")
	}

	if s.TotalTime > 0 {
		md.WriteString(fmt.Sprintf("## Peak hour\n\nYou browse the most around **%s**.\n\n",
			HourLabel(s.PeakHour)))
	}

	md.WriteString(fmt.Sprintf("## Tabs\n\nUp to **%d** tabs open at once, %d open now, **%s** of them zombies.\n\n",
		s.MaxTabsOpen, s.CurrentTabsOpen, FormatNumber(int64(s.ZombieTabs))))

	md.WriteString(fmt.Sprintf("## Bookmark graveyard\n\n**%s** bookmarks you never opened.\n",
		FormatNumber(int64(s.NeverOpenedBookmarks))))

	return md.String()
}

// RenderHTML renders the markdown report to HTML.
func (b *Builder) RenderHTML(s *Summary) (string, error) {
	var buf bytes.Buffer
	if err := b.markdown.Convert([]byte(b.RenderMarkdown(s)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

// FormatDuration renders milliseconds as "Xh Ym", "Xm" or "Xs".
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int64(d.Hours())
	minutes := int64(d.Minutes()) % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// FormatNumber renders an integer with thousands separators.
func FormatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

// HourLabel renders an hour of day in 12-hour clock form.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
