// ABOUTME: Display helpers for timestamps with fallbacks for malformed values
// ABOUTME: Relative calendar phrasing for list rows and humanized due distances
package crm

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/harperreed/touchbase/models"
)

const (
	UnknownLabel = "unknown"
	NoDateLabel  = "No date"
)

// FormatRelative phrases t against now: "today at 3:04 PM", "last Monday at ...",
// or a plain date when more than a week away.
func FormatRelative(t, now time.Time) string {
	t = t.In(now.Location())
	clock := t.Format("3:04 PM")
	days := CalendarDaysBetween(t, now)

	switch {
	case days < -6:
		return t.Format("01/02/2006")
	case days < -1:
		return "last " + t.Weekday().String() + " at " + clock
	case days < 0:
		return "yesterday at " + clock
	case days < 1:
		return "today at " + clock
	case days < 2:
		return "tomorrow at " + clock
	case days < 7:
		return t.Weekday().String() + " at " + clock
	default:
		return t.Format("01/02/2006")
	}
}

// FormatLastInteraction labels a contact's last touch, or "unknown".
func FormatLastInteraction(ts models.Timestamp, now time.Time) string {
	t, ok := ts.Time()
	if !ok {
		return UnknownLabel
	}
	return FormatRelative(t, now)
}

// FormatDueLabel labels a task badge, or "No date".
func FormatDueLabel(ts models.Timestamp, now time.Time) string {
	t, ok := ts.Time()
	if !ok {
		return NoDateLabel
	}
	return "Task due " + FormatRelative(t, now)
}

// FormatDueDistance renders "3 days from now" / "2 hours ago", or "No date".
func FormatDueDistance(ts models.Timestamp, now time.Time) string {
	t, ok := ts.Time()
	if !ok {
		return NoDateLabel
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatTimestamp applies a layout, falling back to "no date".
func FormatTimestamp(ts models.Timestamp, layout string, loc *time.Location) string {
	t, ok := ts.Time()
	if !ok {
		return "no date"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}
