package models

import (
	"fmt"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses the backend's created field. Timestamps without a zone are UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// RelativeTime renders how long ago a job was posted, or "" when unknown
func RelativeTime(createdAt string, now time.Time) string {
	created, ok := ParseTimestamp(createdAt)
	if !ok {
		return ""
	}
	diff := now.Sub(created)
	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
	case hours < 24:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	}
}

// PostedWithin24h reports whether createdAt is no older than 24 hours
func PostedWithin24h(createdAt string, now time.Time) bool {
	created, ok := ParseTimestamp(createdAt)
	if !ok {
		return false
	}
	return now.Sub(created) <= 24*time.Hour
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
