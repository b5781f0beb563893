package tabs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tabrewind/internal/browser"
	"tabrewind/internal/category"
	"tabrewind/internal/site"
)

// minGroupSize is the smallest number of same-category tabs worth
// grouping.
const minGroupSize = 2

// SuggestedTab is one open tab inside a group suggestion.
type SuggestedTab struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Domain string `json:"domain"`
}

// GroupSuggestion proposes one tab group for a category.
type GroupSuggestion struct {
	CategoryID string         `json:"categoryId"`
	Name       string         `json:"name"`
	Emoji      string         `json:"emoji"`
	Color      string         `json:"color"` // browser tab-group color name
	Tabs       []SuggestedTab `json:"tabs"`
}

// SuggestGroups snapshots the open tabs, categorizes the trackable ones
// and proposes one group per category with at least two tabs. Internal
// browser pages are skipped. Suggestions are ordered largest first.
func SuggestGroups(ctx context.Context, tabSvc browser.TabService, resolver *category.Resolver) ([]GroupSuggestion, error) {
	snapshot, err := tabSvc.OpenTabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot open tabs: %w", err)
	}

	byCategory := make(map[string]*GroupSuggestion)
	for _, tab := range snapshot {
		if strings.HasPrefix(tab.URL, "chrome://") {
			continue
		}
		domain := site.Extract(tab.URL)
		if !site.Trackable(domain) {
			continue
		}

		cat := resolver.Resolve(domain)
		group, ok := byCategory[cat.ID]
		if !ok {
			group = &GroupSuggestion{
				CategoryID: cat.ID,
				Name:       cat.Name,
				Emoji:      cat.Emoji,
				Color:      cat.GroupColor,
			}
			byCategory[cat.ID] = group
		}
		group.Tabs = append(group.Tabs, SuggestedTab{
			ID:     tab.ID,
			URL:    tab.URL,
			Title:  tab.Title,
			Domain: domain,
		})
	}

	suggestions := make([]GroupSuggestion, 0, len(byCategory))
	for _, group := range byCategory {
		if len(group.Tabs) >= minGroupSize {
			suggestions = append(suggestions, *group)
		}
	}
	sort.Slice(suggestions, func(a, b int) bool {
		if len(suggestions[a].Tabs) != len(suggestions[b].Tabs) {
			return len(suggestions[a].Tabs) > len(suggestions[b].Tabs)
		}
		return suggestions[a].CategoryID < suggestions[b].CategoryID
	})
	return suggestions, nil
}
