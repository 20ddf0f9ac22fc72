// Package timeutil provides calendar math and tolerant value coercion for
// the statistics engine. Every aggregate in the app funnels numeric and
// clock parsing through this package so that a malformed entry degrades to
// zero instead of poisoning a whole computation.
package timeutil

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used by entry records.
	DateLayout = "2006-01-02"
	// ClockLayout is the clock time format used by entry records.
	ClockLayout = "15:04"

	// HoursPerDay is used when normalizing midnight-crossing sessions.
	HoursPerDay = 24.0
)

// CoerceFloat converts an arbitrary value to a float64, returning 0 for
// anything that is missing, unparseable, NaN or infinite.
func CoerceFloat(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return sanitize(n)
	case float32:
		return sanitize(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return ParseFloat(n)
	default:
		return 0
	}
}

// ParseFloat parses a numeric string, returning 0 on failure. Comma decimal
// separators are accepted since imported documents sometimes carry them.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0
		}
	}

	return sanitize(f)
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SafeDiv divides a by b, returning exactly 0 when b is 0 so that derived
// rates can never be NaN or infinite.
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return sanitize(a / b)
}

// ParseClock parses a HH:MM clock string into minutes after midnight.
// Returns ok=false for empty or malformed values.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		// Accept single-digit hours like "9:00".
		t, err = time.Parse("15:4", s)
		if err != nil {
			return 0, false
		}
	}

	return t.Hour()*60 + t.Minute(), true
}

// ClockSpanHours returns the elapsed hours between two clock strings.
// A session whose end is earlier than its start is treated as crossing
// midnight: 24 hours are added before subtracting.
func ClockSpanHours(start, end string) (float64, bool) {
	s, okS := ParseClock(start)
	e, okE := ParseClock(end)
	if !okS || !okE {
		return 0, false
	}

	hours := float64(e-s) / 60.0
	if e < s {
		hours += HoursPerDay
	}

	return hours, true
}

// ParseDate parses a calendar date in the entry record format.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay truncates a time to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday midnight that starts the week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first midnight of the month containing t.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns the first midnight of the year containing t.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
