package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"placebook/internal/model"
)

// FormatCoordinate formats a coordinate as "-23.55052, -46.63331" or "—" if nil.
func FormatCoordinate(c *model.Coordinate) string {
	if c == nil {
		return "—"
	}
	return fmt.Sprintf("%.5f, %.5f", c.Latitude, c.Longitude)
}

// FormatDegrees formats a single latitude or longitude value.
func FormatDegrees(v float64) string {
	return fmt.Sprintf("%.5f", v)
}

// FormatPlaceTime formats a creation time with humanized relative display.
// "Today", "Yesterday", "3d ago", "Jan 15", "Jan 15 '24"
func FormatPlaceTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	t = t.In(now.Location())

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%dd ago", days)
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02 '06")
	}
}

// PlaceTime returns the creation time of a place, falling back to the
// millisecond timestamp in its id for records written without createdAt.
func PlaceTime(p model.Place) time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	var ms int64
	if _, err := fmt.Sscanf(p.ID, "%d", &ms); err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// MapURL links a coordinate to OpenStreetMap at street zoom.
func MapURL(c model.Coordinate) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=17/%.5f/%.5f",
		c.Latitude, c.Longitude, c.Latitude, c.Longitude)
}

// ShortRef returns the file name part of a photo reference.
func ShortRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "—"
	}
	if i := strings.Index(ref, "://"); i >= 0 && !strings.Contains(ref[i+3:], "/") {
		return ref
	}
	return filepath.Base(ref)
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
