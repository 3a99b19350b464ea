package selector

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Fractional seconds are accepted by
// time.Parse after any seconds field. Numeric dates are month first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1-2-2006 15:04:05",
	"1-2-2006 15:04",
	"1-2-2006 3:04:05 PM",
	"1-2-2006 3:04 PM",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
	"January 2, 2006 3:04:05 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 15:04:05",
	"January 2, 2006 15:04",
	"Mon, Jan 2, 2006 3:04 PM",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
	"2 January 2006 15:04:05",
	"2 January 2006 15:04",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006 15:04",
	"2006-01-02",
	"2006/1/2",
	"1/2/2006",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// zonedLayouts carry an offset; the wall clock is kept and the offset dropped.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
}

// ParseTimestamp parses a headline or price timestamp as naive wall-clock
// time in UTC. It reports false for empty or unrecognised values.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return wallClock(t), true
		}
	}
	s = stripZoneAbbrev(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// stripZoneAbbrev drops a trailing zone name such as "EDT" or "UTC".
func stripZoneAbbrev(s string) string {
	i := strings.LastIndexByte(s, ' ')
	if i < 0 {
		return s
	}
	tail := s[i+1:]
	if len(tail) < 2 || len(tail) > 5 || tail == "AM" || tail == "PM" {
		return s
	}
	for _, r := range tail {
		if r < 'A' || r > 'Z' {
			return s
		}
	}
	return strings.TrimSpace(s[:i])
}
