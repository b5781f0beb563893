package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"

	"tabrewind/internal/browser"
)

// TabInspector lists open tabs by attaching to a running Chrome over
// the DevTools protocol. The websocket connection is established lazily
// on first use and reused across polls.
type TabInspector struct {
	controlURL string

	mu      sync.Mutex
	browser *rod.Browser
}

// NewTabInspector creates an inspector for the given DevTools control
// URL (e.g. http://127.0.0.1:9222).
func NewTabInspector(controlURL string) *TabInspector {
	return &TabInspector{controlURL: controlURL}
}

// OpenTabs implements browser.TabService.
func (t *TabInspector) OpenTabs(ctx context.Context) ([]browser.OpenTab, error) {
	b, err := t.connect()
	if err != nil {
		return nil, err
	}

	pages, err := b.Pages()
	if err != nil {
		// The browser may have gone away; force a reconnect next poll.
		t.reset()
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	tabs := make([]browser.OpenTab, 0, len(pages))
	for _, page := range pages {
		info, err := page.Context(ctx).Info()
		if err != nil {
			slog.Debug("skipping page without target info", "error", err)
			continue
		}
		tabs = append(tabs, browser.OpenTab{
			ID:     string(info.TargetID),
			URL:    info.URL,
			Title:  info.Title,
			Active: pageVisible(ctx, page),
		})
	}
	return tabs, nil
}

// pageVisible reports whether the page is the focused, visible tab.
// Evaluation failures (crashed or unloading pages) count as inactive.
func pageVisible(ctx context.Context, page *rod.Page) bool {
	res, err := page.Context(ctx).Evaluate(&rod.EvalOptions{
		ByValue: true,
		JS:      `() => document.visibilityState === "visible" && document.hasFocus()`,
	})
	if err != nil {
		return false
	}
	return res.Value.Bool()
}

// connect dials the control URL once and caches the browser handle.
// The handle deliberately outlives any single request context.
func (t *TabInspector) connect() (*rod.Browser, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.browser != nil {
		return t.browser, nil
	}

	b := rod.New().ControlURL(t.controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to devtools at %s: %w", t.controlURL, err)
	}
	t.browser = b
	return b, nil
}

func (t *TabInspector) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.browser = nil
}
