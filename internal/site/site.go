// Package site derives canonical site keys from raw URLs.
package site

import (
	"net/url"
	"strings"
)

// newTabPlaceholder is the pseudo-host browsers report for empty tabs.
// It must never reach the aggregate tables.
const newTabPlaceholder = "newtab"

// Extract returns the canonical domain for a raw URL: the hostname with
// a leading "www." stripped. It returns "" when the URL cannot be parsed
// or carries no hostname; callers must drop the event in that case.
func Extract(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Trackable reports whether a domain returned by Extract may enter the
// aggregate tables. Empty domains and the new-tab placeholder are not
// trackable.
func Trackable(domain string) bool {
	return domain != "" && domain != newTabPlaceholder
}
