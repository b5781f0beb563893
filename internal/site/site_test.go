package site

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain https url",
			url:  "https://example.com/path",
			want: "example.com",
		},
		{
			name: "leading www stripped",
			url:  "https://www.example.com/",
			want: "example.com",
		},
		{
			name: "www in the middle is kept",
			url:  "https://docs.www-archive.org/",
			want: "docs.www-archive.org",
		},
		{
			name: "port is dropped",
			url:  "http://localhost:9222/json",
			want: "localhost",
		},
		{
			name: "chrome new tab",
			url:  "chrome://newtab/",
			want: "newtab",
		},
		{
			name: "malformed url",
			url:  "://nope",
			want: "",
		},
		{
			name: "relative path has no host",
			url:  "just some text",
			want: "",
		},
		{
			name: "empty string",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.url)
			if got != tt.want {
				t.Errorf("Extract(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// Extracting an already-extracted domain must yield the same result.
func TestExtract_Idempotent(t *testing.T) {
	for _, raw := range []string{
		"https://www.github.com/rod",
		"http://news.ycombinator.com/item?id=1",
		"https://www.nytimes.com",
	} {
		first := Extract(raw)
		second := Extract("https://" + first + "/")
		if first != second {
			t.Errorf("Extract not idempotent for %q: %q != %q", raw, first, second)
		}
	}
}

func TestTrackable(t *testing.T) {
	tests := []struct {
		domain string
		want   bool
	}{
		{"example.com", true},
		{"newtab", false},
		{"", false},
		{"localhost", true},
	}

	for _, tt := range tests {
		if got := Trackable(tt.domain); got != tt.want {
			t.Errorf("Trackable(%q) = %v, want %v", tt.domain, got, tt.want)
		}
	}
}
