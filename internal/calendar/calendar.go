// Package calendar resolves trading days and the pre-market headline window.
// Only weekends are treated as non-trading days.
package calendar

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"HeadlineSentinel/internal/model"
)

// ErrInvalidDateFormat is returned when a target date is not M/D/YYYY.
var ErrInvalidDateFormat = errors.New("invalid date format, expected M/D/YYYY")

const (
	dateLayout = "1/2/2006"

	windowStartHour   = 16
	windowStartMinute = 31
	windowEndHour     = 9
	windowEndMinute   = 30
	windowEndSecond   = 59
)

// ParseTargetDate parses a numeric month/day/year date. Leading zeros are optional.
func ParseTargetDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return time.Time{}, errors.Wrapf(ErrInvalidDateFormat, "parse %q", s)
	}
	for _, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return time.Time{}, errors.Wrapf(ErrInvalidDateFormat, "parse %q", s)
		}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDateFormat, "parse %q: %v", s, err)
	}
	return t, nil
}

// IsTradingDay reports whether t falls on Monday through Friday.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// PreviousTradingDay steps back from date until it lands on a weekday.
func PreviousTradingDay(date time.Time) time.Time {
	prev := Day(date).AddDate(0, 0, -1)
	for !IsTradingDay(prev) {
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// ComputeWindow returns [previous trading day 16:31:00, target 09:30:59].
func ComputeWindow(target time.Time) model.TradingWindow {
	prev := PreviousTradingDay(target)
	day := Day(target)
	return model.TradingWindow{
		Start: time.Date(prev.Year(), prev.Month(), prev.Day(), windowStartHour, windowStartMinute, 0, 0, time.UTC),
		End:   time.Date(day.Year(), day.Month(), day.Day(), windowEndHour, windowEndMinute, windowEndSecond, 0, time.UTC),
	}
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date the way it is typed on the command line.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// OutputFileName builds the CSV name for a raw date string, e.g. 5/6/2024
// becomes filtered_headlines_5-6-2024.csv.
func OutputFileName(rawDate string) string {
	return "filtered_headlines_" + strings.ReplaceAll(strings.TrimSpace(rawDate), "/", "-") + ".csv"
}
