package timeutil

import "time"

// Period identifies a reporting window anchored at "now".
type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
	PeriodAll    Period = "all"
)

// Window is a half-open reporting interval [Start, End). A zero Window
// means "all time" and contains every date.
type Window struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the window is unbounded.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether a calendar date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	if w.IsZero() {
		return true
	}
	d := StartOfDay(date)
	return !d.Before(w.Start) && d.Before(w.End)
}

// PeriodWindow computes the reporting window for a period relative to now,
// using calendar boundaries. Weeks start on Monday. For PeriodCustom the
// from/to dates are both inclusive; for PeriodAll the window is unbounded.
func PeriodWindow(p Period, now time.Time, from, to time.Time) Window {
	switch p {
	case PeriodToday:
		start := StartOfDay(now)
		return Window{Start: start, End: start.AddDate(0, 0, 1)}
	case PeriodWeek:
		start := StartOfWeek(now)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	case PeriodMonth:
		start := StartOfMonth(now)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	case PeriodYear:
		start := StartOfYear(now)
		return Window{Start: start, End: start.AddDate(1, 0, 0)}
	case PeriodCustom:
		if from.IsZero() && to.IsZero() {
			return Window{}
		}
		start := StartOfDay(from)
		end := StartOfDay(to).AddDate(0, 0, 1)
		if to.IsZero() {
			end = StartOfDay(now).AddDate(0, 0, 1)
		}
		if from.IsZero() {
			start = time.Time{}
		}
		return Window{Start: start, End: end}
	default:
		return Window{}
	}
}
