package session

import (
	"context"
	"log/slog"
	"time"

	"tabrewind/internal/site"
	"tabrewind/internal/stats"
	"tabrewind/internal/tabs"
)

// EventKind enumerates the navigation events the browser emits.
type EventKind string

const (
	TabActivated  EventKind = "tab_activated"
	TabUpdated    EventKind = "tab_updated"
	TabRemoved    EventKind = "tab_removed"
	WindowRemoved EventKind = "window_removed"
)

// NavEvent is one navigation event. URL carries the (new) tab URL for
// activated and updated events.
type NavEvent struct {
	Kind  EventKind `json:"kind"`
	TabID string    `json:"tabId,omitempty"`
	URL   string    `json:"url,omitempty"`
}

// Dispatcher drains navigation events on a single goroutine and folds
// the finished dwell intervals through the aggregator. Serializing here
// gives the at-most-one-in-flight-per-tab-switch property by
// construction; no locking around the aggregate tables is involved.
type Dispatcher struct {
	session *Session
	agg     *stats.Aggregator
	tracker *tabs.Tracker
	events  chan NavEvent
	logger  *slog.Logger
	now     func() time.Time
}

// NewDispatcher creates a Dispatcher. Run must be started for Dispatch
// to make progress.
func NewDispatcher(session *Session, agg *stats.Aggregator, tracker *tabs.Tracker) *Dispatcher {
	return &Dispatcher{
		session: session,
		agg:     agg,
		tracker: tracker,
		events:  make(chan NavEvent, 64),
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// Dispatch enqueues an event in arrival order.
func (d *Dispatcher) Dispatch(ev NavEvent) {
	d.events <- ev
}

// Run processes events until the context is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.events:
			d.handle(ctx, ev)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev NavEvent) {
	now := d.now()

	switch ev.Kind {
	case TabActivated:
		d.flushCurrent(ctx, now)
		d.session.setCurrent(ev.TabID, ev.URL, now)
		d.refreshTabs(ctx)

	case TabUpdated:
		// Only a URL change on the active tab closes an interval.
		tabID, _, _ := d.session.current()
		if ev.TabID == tabID && ev.URL != "" {
			d.flushCurrent(ctx, now)
			d.session.setCurrent(ev.TabID, ev.URL, now)
		}

	case TabRemoved:
		tabID, _, _ := d.session.current()
		if ev.TabID == tabID {
			d.flushCurrent(ctx, now)
			d.session.clearCurrent()
		}
		if d.tracker != nil {
			d.tracker.Forget(ev.TabID)
		}
		d.refreshTabs(ctx)

	case WindowRemoved:
		d.flushCurrent(ctx, now)
		d.session.clearCurrent()

	default:
		d.logger.WarnContext(ctx, "dropping unknown navigation event", "kind", ev.Kind)
	}
}

// flushCurrent records the dwell time of the in-flight interval, if one
// is open and its site is trackable.
func (d *Dispatcher) flushCurrent(ctx context.Context, now time.Time) {
	_, url, start := d.session.current()
	if url == "" || start.IsZero() {
		return
	}

	domain := site.Extract(url)
	if !site.Trackable(domain) {
		return
	}

	if err := d.agg.RecordEvent(ctx, domain, now, now.Sub(start), 1); err != nil {
		// Never fatal: the event is lost, the next interval starts clean.
		d.logger.ErrorContext(ctx, "failed to record dwell interval",
			"domain", domain, "error", err)
	}
}

func (d *Dispatcher) refreshTabs(ctx context.Context) {
	if d.tracker == nil {
		return
	}
	if err := d.tracker.Refresh(ctx); err != nil {
		d.logger.WarnContext(ctx, "opportunistic tab refresh failed", "error", err)
	}
}
