package utils

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FormatLastReset renders the last-reset marker for display, e.g.
// "2026-03-02 00:01 (3 hours ago)". A nil marker renders as "Never".
func FormatLastReset(t *time.Time, now time.Time, loc *time.Location) string {
	if t == nil {
		return "Never"
	}
	return fmt.Sprintf("%s (%s)", t.In(loc).Format("2006-01-02 15:04"), humanize.RelTime(*t, now, "ago", "from now"))
}
