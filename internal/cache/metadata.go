// Package cache stores fetched style collections on disk.
package cache

import (
	"fmt"
	"time"
)

// Metadata stores cache state for a fetched design file.
type Metadata struct {
	FileKey      string    `json:"file_key"`
	Name         string    `json:"name,omitempty"`
	LastModified string    `json:"last_modified,omitempty"` // as reported by the design-file API
	StyleCount   int       `json:"style_count"`
	LastFetched  time.Time `json:"last_fetched"`
}

// IsStale returns true if cache is at or older than the TTL.
func (m *Metadata) IsStale(ttl time.Duration) bool {
	return time.Since(m.LastFetched) >= ttl
}

// Age returns human-readable age string.
func (m *Metadata) Age() string {
	duration := time.Since(m.LastFetched)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// Label returns the file name, or the key when the name is unknown.
func (m *Metadata) Label() string {
	if m.Name != "" {
		return fmt.Sprintf("%s (%s)", m.Name, m.FileKey)
	}
	return m.FileKey
}
