// Package session owns the long-lived tracking state of the process:
// the current-tab dwell interval, the import re-entrancy flag, and the
// event dispatcher and timers that drive the aggregation engine.
package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Session is the process-wide tracking context. It is created once at
// startup and lives until the process exits; none of its state survives
// a restart. All handlers receive it by reference, there are no ambient
// globals.
type Session struct {
	importing atomic.Bool

	mu         sync.Mutex
	currentTab string
	currentURL string
	startTime  time.Time
}

// New creates an empty session context.
func New() *Session {
	return &Session{}
}

// TryBeginImport atomically takes the import flag. It implements
// importer.Guard.
func (s *Session) TryBeginImport() bool {
	return s.importing.CompareAndSwap(false, true)
}

// EndImport releases the import flag.
func (s *Session) EndImport() {
	s.importing.Store(false)
}

// Importing reports whether an import is currently running.
func (s *Session) Importing() bool {
	return s.importing.Load()
}

// current returns the in-flight dwell interval, if any.
func (s *Session) current() (tabID, url string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTab, s.currentURL, s.startTime
}

// setCurrent replaces the in-flight dwell interval.
func (s *Session) setCurrent(tabID, url string, start time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTab = tabID
	s.currentURL = url
	s.startTime = start
}

// clearCurrent drops the in-flight dwell interval.
func (s *Session) clearCurrent() {
	s.setCurrent("", "", time.Time{})
}
