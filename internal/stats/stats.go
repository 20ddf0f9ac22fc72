// Package stats is the derived-data computation engine. Every function is
// pure and deterministic: entries in, aggregates out, no I/O. Callers pass
// the reference time explicitly so that the synchronous path and the
// background worker produce numerically identical results for the same
// input.
//
// Malformed entries never abort a computation. Bad numeric or date fields
// coerce to zero and the record simply stops contributing, which keeps a
// single corrupt import from blanking the whole dashboard.
package stats

import (
	"sort"
	"time"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

// breakExclusionHours is the gap size at and above which an intra-day gap
// is treated as "did not work that interval" rather than a break.
const breakExclusionHours = 12.0

// Result holds the aggregate statistics for a filtered entry set.
type Result struct {
	TotalHours  float64 `json:"total_hours"`
	TotalEarned float64 `json:"total_earned"`
	AvgRate     float64 `json:"avg_rate"`
	DaysWorked  int     `json:"days_worked"`
	TotalBreaks float64 `json:"total_breaks"`
	DaysOff     int     `json:"days_off"`
}

// Filter returns the entries whose calendar date falls inside the window
// for the given period. Entries with malformed dates are dropped; they can
// not be placed in any window.
func Filter(entries []*model.TimeEntry, period timeutil.Period, from, to, now time.Time) []*model.TimeEntry {
	window := timeutil.PeriodWindow(period, now, from, to)

	filtered := make([]*model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		day, ok := e.Day()
		if !ok {
			continue
		}
		if window.Contains(day) {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

// CalculateDetailedStats computes the aggregate statistics over an already
// filtered entry set. The window bounds the daysOff scan; a zero window
// falls back to the span from the earliest entry to now.
func CalculateDetailedStats(entries []*model.TimeEntry, window timeutil.Window, now time.Time) Result {
	var res Result

	byDate := groupByDate(entries)

	for _, e := range entries {
		if e == nil {
			continue
		}
		res.TotalHours += e.Hours()
		res.TotalEarned += e.Earned.Float()
	}

	res.AvgRate = timeutil.SafeDiv(res.TotalEarned, res.TotalHours)
	res.DaysWorked = len(byDate)

	for _, day := range byDate {
		res.TotalBreaks += dayBreaks(day)
	}

	res.DaysOff = daysOff(byDate, window, now)

	return res
}

// TotalBreaks sums the healthy-definition break hours across the set:
// per-date gaps between consecutive sessions, excluding any single gap of
// 12 hours or more.
func TotalBreaks(entries []*model.TimeEntry) float64 {
	var total float64
	for _, day := range groupByDate(entries) {
		total += dayBreaks(day)
	}
	return total
}

// session is one entry projected onto a minute axis within its date.
type session struct {
	entry    *model.TimeEntry
	startMin int
	endMin   int
}

// daySessions converts a date's entries into clock sessions sorted by start
// time. Entries without a parseable start clock are skipped; breaks cannot
// be measured against them.
func daySessions(entries []*model.TimeEntry) []session {
	sessions := make([]session, 0, len(entries))

	for _, e := range entries {
		start, ok := e.StartMinutes()
		if !ok {
			continue
		}

		span, ok := timeutil.ClockSpanHours(e.Start, e.End)
		if !ok {
			// Duration-only entries still occupy clock time from their
			// start when an override is present.
			if e.Duration == nil {
				continue
			}
			span = e.Duration.Float()
		}

		sessions = append(sessions, session{
			entry:    e,
			startMin: start,
			endMin:   start + int(span*60+0.5),
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].startMin < sessions[j].startMin
	})

	return sessions
}

// dayBreaks sums the gaps between consecutive sessions on one date.
// A single gap of 12 hours or more is not a break; the user simply was not
// working that interval.
func dayBreaks(entries []*model.TimeEntry) float64 {
	sessions := daySessions(entries)
	if len(sessions) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(sessions); i++ {
		gap := float64(sessions[i].startMin-sessions[i-1].endMin) / 60.0
		if gap <= 0 {
			continue
		}
		if gap >= breakExclusionHours {
			continue
		}
		total += gap
	}

	return total
}

// daysOff counts calendar dates inside the active window, up to and
// including today only, that have zero entries. Future dates never count.
func daysOff(byDate map[string][]*model.TimeEntry, window timeutil.Window, now time.Time) int {
	today := timeutil.StartOfDay(now)

	start := window.Start
	end := window.End
	if window.IsZero() {
		first, ok := earliestDate(byDate)
		if !ok {
			return 0
		}
		start = first
		end = today.AddDate(0, 0, 1)
	}

	if start.IsZero() {
		first, ok := earliestDate(byDate)
		if !ok {
			return 0
		}
		start = first
	}

	// Clamp the scan at the end of today.
	if cutoff := today.AddDate(0, 0, 1); end.After(cutoff) {
		end = cutoff
	}

	count := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if _, worked := byDate[d.Format(timeutil.DateLayout)]; !worked {
			count++
		}
	}

	return count
}

// groupByDate buckets entries by their calendar date string. Entries with
// malformed dates are dropped.
func groupByDate(entries []*model.TimeEntry) map[string][]*model.TimeEntry {
	byDate := make(map[string][]*model.TimeEntry)
	for _, e := range entries {
		if e == nil {
			continue
		}
		if _, ok := e.Day(); !ok {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return byDate
}

// earliestDate returns the earliest calendar date present in the grouping.
func earliestDate(byDate map[string][]*model.TimeEntry) (time.Time, bool) {
	var first time.Time
	found := false
	for date := range byDate {
		d, ok := timeutil.ParseDate(date)
		if !ok {
			continue
		}
		if !found || d.Before(first) {
			first = d
			found = true
		}
	}
	return first, found
}
