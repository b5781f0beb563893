// Package bookmarks cross-references the bookmark tree against the
// per-site aggregates to flag never-visited bookmarks.
package bookmarks

import (
	"context"
	"fmt"
	"log/slog"

	"tabrewind/internal/browser"
	"tabrewind/internal/metrics"
	"tabrewind/internal/site"
	"tabrewind/internal/stats"
)

// Analyzer recomputes the bookmark table from scratch on every run;
// there is no incremental merge.
type Analyzer struct {
	store     stats.KV
	bookmarks browser.BookmarkService
	logger    *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(store stats.KV, bookmarks browser.BookmarkService) *Analyzer {
	return &Analyzer{
		store:     store,
		bookmarks: bookmarks,
		logger:    slog.Default(),
	}
}

// leaf is one bookmark extracted from the tree walk.
type leaf struct {
	url       string
	title     string
	dateAdded int64
}

// Run walks the full bookmark tree, groups leaves by domain,
// cross-references the site aggregates and replaces the bookmark table.
// It returns the number of bookmark leaves processed.
func (a *Analyzer) Run(ctx context.Context) (int, error) {
	roots, err := a.bookmarks.Tree(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read bookmark tree: %w", err)
	}

	var leaves []leaf
	var walk func(nodes []browser.BookmarkNode)
	walk = func(nodes []browser.BookmarkNode) {
		for _, node := range nodes {
			if node.URL != "" {
				leaves = append(leaves, leaf{url: node.URL, title: node.Title, dateAdded: node.DateAdded})
			}
			if len(node.Children) > 0 {
				walk(node.Children)
			}
		}
	}
	walk(roots)

	table := make(map[string]*stats.BookmarkAggregate)
	for _, l := range leaves {
		domain := site.Extract(l.url)
		if domain == "" {
			continue
		}
		agg, ok := table[domain]
		if !ok {
			agg = &stats.BookmarkAggregate{Domain: domain, NeverOpened: true}
			table[domain] = agg
		}
		agg.Count++
	}

	raw, err := a.store.Get(ctx, stats.KeySiteStats)
	if err != nil {
		return 0, fmt.Errorf("failed to read site stats: %w", err)
	}
	sites, err := stats.Decode(raw, stats.KeySiteStats, map[string]*stats.SiteAggregate{})
	if err != nil {
		return 0, err
	}

	for domain, agg := range table {
		if siteAgg, ok := sites[domain]; ok {
			lastOpened := siteAgg.LastVisit
			agg.NeverOpened = false
			agg.LastOpened = &lastOpened
		}
	}

	if err := a.store.Set(ctx, map[string]any{stats.KeyBookmarkStats: table}); err != nil {
		return 0, fmt.Errorf("failed to write bookmark stats: %w", err)
	}

	metrics.BookmarksAnalyzed.Add(float64(len(leaves)))
	a.logger.InfoContext(ctx, "bookmark analysis finished",
		"leaves", len(leaves), "domains", len(table))
	return len(leaves), nil
}
