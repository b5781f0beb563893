package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tabrewind/internal/browser"
)

// BookmarkReader parses the profile's Bookmarks JSON file into the
// generic bookmark tree contract.
type BookmarkReader struct {
	path string
}

// NewBookmarkReader creates a reader for the Bookmarks file inside the
// given profile directory.
func NewBookmarkReader(profileDir string) *BookmarkReader {
	return &BookmarkReader{path: filepath.Join(profileDir, "Bookmarks")}
}

// bookmarkNode mirrors the on-disk node shape. date_added is a decimal
// string of WebKit-epoch microseconds.
type bookmarkNode struct {
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	DateAdded string         `json:"date_added"`
	Children  []bookmarkNode `json:"children"`
}

type bookmarkFile struct {
	Roots map[string]bookmarkNode `json:"roots"`
}

// Tree implements browser.BookmarkService.
func (r *BookmarkReader) Tree(_ context.Context) ([]browser.BookmarkNode, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}

	var file bookmarkFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks file: %w", err)
	}

	// Stable root order: bookmark bar, other, synced.
	var roots []browser.BookmarkNode
	for _, name := range []string{"bookmark_bar", "other", "synced"} {
		if node, ok := file.Roots[name]; ok {
			roots = append(roots, convertNode(node))
		}
	}
	return roots, nil
}

func convertNode(n bookmarkNode) browser.BookmarkNode {
	out := browser.BookmarkNode{
		Title:     n.Name,
		DateAdded: parseWebkitString(n.DateAdded),
	}
	if n.Type == "url" {
		out.URL = n.URL
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, convertNode(child))
	}
	return out
}

func parseWebkitString(s string) int64 {
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil || micros == 0 {
		return 0
	}
	return fromWebkitMicros(micros)
}
