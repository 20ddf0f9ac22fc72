package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

func entry(date, start, end string, rate float64) *model.TimeEntry {
	return model.NewTimeEntry("", date, start, end, rate)
}

func TestCalculateDetailedStats(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	t.Run("two_sessions_one_day", func(t *testing.T) {
		// 09:00-12:00 at 1000/h and 13:00-15:00 at 1000/h.
		entries := []*model.TimeEntry{
			entry("2026-03-02", "09:00", "12:00", 1000),
			entry("2026-03-02", "13:00", "15:00", 1000),
		}

		window := timeutil.PeriodWindow(timeutil.PeriodToday, now, time.Time{}, time.Time{})
		res := CalculateDetailedStats(entries, window, now)

		assert.InDelta(t, 5.0, res.TotalHours, 1e-9)
		assert.InDelta(t, 5000.0, res.TotalEarned, 1e-9)
		assert.InDelta(t, 1000.0, res.AvgRate, 1e-9)
		assert.Equal(t, 1, res.DaysWorked)
		assert.InDelta(t, 1.0, res.TotalBreaks, 1e-9)
		assert.Equal(t, 0, res.DaysOff)
	})

	t.Run("empty_set_is_all_zeros", func(t *testing.T) {
		res := CalculateDetailedStats(nil, timeutil.Window{}, now)
		assert.Equal(t, Result{}, res)
		assert.Equal(t, 0.0, res.AvgRate, "avgRate must be exactly zero, never NaN")
	})

	t.Run("avg_rate_zero_when_no_hours", func(t *testing.T) {
		// Earned without measurable hours: malformed clocks, no duration.
		e := &model.TimeEntry{Date: "2026-03-02", Earned: 500}
		res := CalculateDetailedStats([]*model.TimeEntry{e}, timeutil.Window{}, now)
		assert.InDelta(t, 500.0, res.TotalEarned, 1e-9)
		assert.Equal(t, 0.0, res.TotalHours)
		assert.Equal(t, 0.0, res.AvgRate)
	})

	t.Run("midnight_crossover_counts_once", func(t *testing.T) {
		entries := []*model.TimeEntry{entry("2026-03-01", "22:00", "02:00", 10)}
		res := CalculateDetailedStats(entries, timeutil.Window{}, now)
		assert.InDelta(t, 4.0, res.TotalHours, 1e-9)
		assert.Equal(t, 1, res.DaysWorked)
	})

	t.Run("duration_override_precedence", func(t *testing.T) {
		e := entry("2026-03-02", "09:00", "17:00", 10)
		e.Duration = model.NumberPtr(2)
		e.Earned = model.Number(20)
		res := CalculateDetailedStats([]*model.TimeEntry{e}, timeutil.Window{}, now)
		assert.InDelta(t, 2.0, res.TotalHours, 1e-9)
	})
}

func TestBreakExclusion(t *testing.T) {
	t.Run("twelve_hour_gap_is_not_a_break", func(t *testing.T) {
		entries := []*model.TimeEntry{
			entry("2026-03-02", "06:00", "08:00", 10),
			entry("2026-03-02", "20:00", "22:00", 10),
		}
		assert.Equal(t, 0.0, TotalBreaks(entries))
	})

	t.Run("just_under_twelve_hours_counts", func(t *testing.T) {
		entries := []*model.TimeEntry{
			entry("2026-03-02", "06:00", "08:00", 10),
			entry("2026-03-02", "19:30", "22:00", 10),
		}
		assert.InDelta(t, 11.5, TotalBreaks(entries), 1e-9)
	})

	t.Run("overlapping_sessions_no_negative_break", func(t *testing.T) {
		entries := []*model.TimeEntry{
			entry("2026-03-02", "09:00", "12:00", 10),
			entry("2026-03-02", "11:00", "13:00", 10),
		}
		assert.Equal(t, 0.0, TotalBreaks(entries))
	})

	t.Run("gaps_grouped_per_date", func(t *testing.T) {
		entries := []*model.TimeEntry{
			entry("2026-03-02", "09:00", "10:00", 10),
			entry("2026-03-03", "11:00", "12:00", 10),
		}
		// Different dates: no intra-day gap to measure.
		assert.Equal(t, 0.0, TotalBreaks(entries))
	})
}

func TestDaysOff(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("window_clamped_to_today", func(t *testing.T) {
		// March window, today is the 10th: scan covers the 1st..10th only.
		entries := []*model.TimeEntry{
			entry("2026-03-02", "09:00", "12:00", 10),
			entry("2026-03-05", "09:00", "12:00", 10),
		}
		window := timeutil.PeriodWindow(timeutil.PeriodMonth, now, time.Time{}, time.Time{})
		res := CalculateDetailedStats(entries, window, now)
		// 10 scanned days minus 2 worked.
		assert.Equal(t, 8, res.DaysOff)
	})

	t.Run("all_time_spans_earliest_to_today", func(t *testing.T) {
		entries := []*model.TimeEntry{
			entry("2026-03-08", "09:00", "12:00", 10),
			entry("2026-03-10", "09:00", "12:00", 10),
		}
		res := CalculateDetailedStats(entries, timeutil.Window{}, now)
		// 8th..10th inclusive = 3 days, 2 worked.
		assert.Equal(t, 1, res.DaysOff)
	})

	t.Run("no_entries_no_days_off", func(t *testing.T) {
		res := CalculateDetailedStats(nil, timeutil.Window{}, now)
		assert.Equal(t, 0, res.DaysOff)
	})
}

func TestFilter(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) // Monday

	entries := []*model.TimeEntry{
		entry("2026-03-02", "09:00", "10:00", 10), // today
		entry("2026-03-01", "09:00", "10:00", 10), // Sunday, previous week
		entry("2026-02-10", "09:00", "10:00", 10),
		{Date: "garbage", Start: "09:00", End: "10:00"},
		nil,
	}

	t.Run("today", func(t *testing.T) {
		got := Filter(entries, timeutil.PeriodToday, time.Time{}, time.Time{}, now)
		require.Len(t, got, 1)
		assert.Equal(t, "2026-03-02", got[0].Date)
	})

	t.Run("week_excludes_previous_sunday", func(t *testing.T) {
		got := Filter(entries, timeutil.PeriodWeek, time.Time{}, time.Time{}, now)
		require.Len(t, got, 1)
		assert.Equal(t, "2026-03-02", got[0].Date)
	})

	t.Run("all_keeps_every_valid_entry", func(t *testing.T) {
		got := Filter(entries, timeutil.PeriodAll, time.Time{}, time.Time{}, now)
		assert.Len(t, got, 3)
	})

	t.Run("custom_inclusive", func(t *testing.T) {
		from := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		got := Filter(entries, timeutil.PeriodCustom, from, to, now)
		assert.Len(t, got, 2)
	})
}
