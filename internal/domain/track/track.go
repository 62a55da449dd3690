// Package track provides the Track domain entity.
package track

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a playable track entity.
// Contains only information retrieved from the catalog feed.
type Track struct {
	ID       string        // Video ID used for playback and continuation
	Title    string        // Track title
	Artist   string        // Primary artist name
	Duration time.Duration // Track duration (0 if unknown)
}

// WatchURL returns the URL handed to the playback process. Local library
// tracks carry a file path as their ID and are played directly.
func (t Track) WatchURL() string {
	if strings.ContainsAny(t.ID, `/\`) {
		return t.ID
	}
	return "https://www.youtube.com/watch?v=" + t.ID
}

// Label returns a human-readable "Title - Artist" string for logs and display.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

// ParseDuration parses the "m:ss" / "h:mm:ss" duration text used by the
// watch-playlist feed. Returns 0 for empty or malformed input.
func ParseDuration(text string) time.Duration {
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}

	var total time.Duration
	for _, p := range parts {
		var n int
		if _, err := fmt.Sscanf(p, "%d", &n); err != nil || n < 0 {
			return 0
		}
		total = total*60 + time.Duration(n)*time.Second
	}
	return total
}

// FormatDuration renders a duration back to the feed's "m:ss" form.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	total := int(d.Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
