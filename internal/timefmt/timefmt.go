// Package timefmt renders message timestamps in the viewer's local zone.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	// FormatDateTime renders "March 1, 2024 at 3:04 PM".
	FormatDateTime Format = "date-time"
	// FormatDefault renders "3:04pm - March 1, 2024".
	FormatDefault Format = ""
)

const (
	layoutDateTime = "January 2, 2006 at 3:04 PM"
	layoutDefault  = "3:04pm - January 2, 2006"
)

// Local formats t in loc (time.Local when nil).
func Local(t time.Time, format Format, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	if format == FormatDateTime {
		return t.Format(layoutDateTime)
	}
	return t.Format(layoutDefault)
}

// LocalString parses an RFC 3339 UTC stamp and formats it. A blank or
// unparsable stamp yields ok=false and leaves the caller's text alone.
func LocalString(utc string, format Format, loc *time.Location) (string, bool) {
	utc = strings.TrimSpace(utc)
	if utc == "" {
		return "", false
	}
	t, err := time.Parse(time.RFC3339, utc)
	if err != nil {
		return "", false
	}
	return Local(t, format, loc), true
}

// Relative renders t against now for the message log: "just now", "5m ago",
// "3h ago", then the default absolute form after a day.
func Relative(t, now time.Time, loc *time.Location) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return Local(t, FormatDefault, loc)
	}
}
