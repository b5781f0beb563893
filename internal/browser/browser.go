// Package browser defines the contracts for the external browser
// services the engine consumes: history queries, the bookmark tree and
// live tab inspection. Interfaces are consumer-first; implementations
// live in the chrome subpackage.
package browser

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_services.go -package=mocks tabrewind/internal/browser HistoryService,BookmarkService,TabService

import (
	"context"
	"time"
)

// HistoryEntry is one navigation history record.
type HistoryEntry struct {
	URL           string
	LastVisitTime int64 // epoch milliseconds
	VisitCount    int64
}

// BookmarkNode is a node of the bookmark tree. A node is a bookmark
// leaf iff URL is non-empty; internal nodes carry Children.
type BookmarkNode struct {
	URL       string
	Title     string
	DateAdded int64 // epoch milliseconds
	Children  []BookmarkNode
}

// OpenTab is one currently open tab as reported by the browser.
type OpenTab struct {
	ID     string
	URL    string
	Title  string
	Active bool
}

// HistoryService queries navigation history.
type HistoryService interface {
	// Search returns history entries visited at or after since, newest
	// first, capped at maxResults.
	Search(ctx context.Context, since time.Time, maxResults int) ([]HistoryEntry, error)
}

// BookmarkService reads the bookmark tree.
type BookmarkService interface {
	// Tree returns the root nodes of the bookmark tree.
	Tree(ctx context.Context) ([]BookmarkNode, error)
}

// TabService inspects currently open tabs.
type TabService interface {
	// OpenTabs returns a snapshot of all open tabs.
	OpenTabs(ctx context.Context) ([]OpenTab, error)
}
