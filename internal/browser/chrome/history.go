// Package chrome implements the browser service contracts against a
// local Chrome/Chromium installation: history and bookmarks are read
// from the profile directory, open tabs through the DevTools protocol.
package chrome

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tabrewind/internal/browser"
)

// Chrome stores timestamps as microseconds since 1601-01-01 UTC.
const webkitEpochOffsetMicros = int64(11644473600) * 1_000_000

// HistoryReader reads navigation history from the profile's History
// sqlite database. Chrome keeps the file locked while running, so each
// query works on a temporary copy.
type HistoryReader struct {
	path string
}

// NewHistoryReader creates a reader for the History database inside the
// given profile directory.
func NewHistoryReader(profileDir string) *HistoryReader {
	return &HistoryReader{path: filepath.Join(profileDir, "History")}
}

// Search implements browser.HistoryService.
func (r *HistoryReader) Search(ctx context.Context, since time.Time, maxResults int) ([]browser.HistoryEntry, error) {
	snapshot, err := copyToTemp(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot history database: %w", err)
	}
	defer func() {
		_ = os.Remove(snapshot)
	}()

	db, err := sql.Open("sqlite3", "file:"+snapshot+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx,
		`SELECT url, last_visit_time, visit_count
		 FROM urls
		 WHERE last_visit_time >= ?
		 ORDER BY last_visit_time DESC
		 LIMIT ?`,
		toWebkitMicros(since), maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []browser.HistoryEntry
	for rows.Next() {
		var url string
		var lastVisit, visitCount int64
		if err := rows.Scan(&url, &lastVisit, &visitCount); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, browser.HistoryEntry{
			URL:           url,
			LastVisitTime: fromWebkitMicros(lastVisit),
			VisitCount:    visitCount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	return entries, nil
}

func toWebkitMicros(t time.Time) int64 {
	return t.UnixMicro() + webkitEpochOffsetMicros
}

func fromWebkitMicros(micros int64) int64 {
	return (micros - webkitEpochOffsetMicros) / 1000
}

func copyToTemp(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = src.Close()
	}()

	dst, err := os.CreateTemp("", "tabrewind-history-*.db")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
