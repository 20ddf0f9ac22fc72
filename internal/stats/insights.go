package stats

import (
	"time"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

// TrendDirection classifies an earnings trend.
type TrendDirection string

const (
	TrendUp           TrendDirection = "up"
	TrendDown         TrendDirection = "down"
	TrendStable       TrendDirection = "stable"
	TrendInsufficient TrendDirection = "insufficient"
)

const (
	// trendMinEntries is the minimum sample size before a trend is reported.
	trendMinEntries = 7
	// trendWindowDays is the trailing range bucketed into weekly windows.
	trendWindowDays = 28
	// trendStabilityPct is the band within which a trend reads as stable.
	trendStabilityPct = 5.0

	// anomalyBandPct is the deviation band within which today reads as a
	// normal day against the historical average.
	anomalyBandPct = 30.0

	// peakWindowHours is the width of the scanning window for the
	// peak-productivity insight.
	peakWindowHours = 2
)

// WeekdayInsight reports the weekday with the highest average earnings.
type WeekdayInsight struct {
	Weekday   time.Weekday `json:"weekday"`
	AvgEarned float64      `json:"avg_earned"`
	Valid     bool         `json:"valid"`
}

// PeakInsight reports the most productive 2-hour clock window.
type PeakInsight struct {
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Rate      float64 `json:"rate"`
	Hours     float64 `json:"hours"`
	Earned    float64 `json:"earned"`
	Valid     bool    `json:"valid"`
}

// TrendInsight reports the earnings trend over the trailing four weeks.
type TrendInsight struct {
	Direction TrendDirection `json:"direction"`
	ChangePct float64        `json:"change_pct"`
	FirstAvg  float64        `json:"first_avg"`
	LastAvg   float64        `json:"last_avg"`
}

// SessionInsight reports the single longest recorded session.
type SessionInsight struct {
	EntryID string  `json:"entry_id"`
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Valid   bool    `json:"valid"`
}

// AnomalyInsight compares today's earnings against the historical daily
// average.
type AnomalyInsight struct {
	TodayEarned   float64        `json:"today_earned"`
	HistoricalAvg float64        `json:"historical_avg"`
	DeviationPct  float64        `json:"deviation_pct"`
	Direction     TrendDirection `json:"direction"`
	Valid         bool           `json:"valid"`
}

// Insights bundles every insight kind into one result.
type Insights struct {
	BestWeekday WeekdayInsight `json:"best_weekday"`
	Peak        PeakInsight    `json:"peak"`
	Trend       TrendInsight   `json:"trend"`
	Longest     SessionInsight `json:"longest"`
	Anomaly     AnomalyInsight `json:"anomaly"`
}

// CalculateInsights computes every insight kind over the entry set.
func CalculateInsights(entries []*model.TimeEntry, now time.Time) Insights {
	return Insights{
		BestWeekday: BestWeekday(entries),
		Peak:        PeakHours(entries),
		Trend:       EarningsTrend(entries, now),
		Longest:     LongestSession(entries),
		Anomaly:     TodayAnomaly(entries, now),
	}
}

// BestWeekday sums earnings per calendar date, buckets the daily sums by
// weekday, averages each bucket, and picks the weekday with the strictly
// greatest average. Ties keep the earliest weekday in Sunday-first order,
// so the result is invariant to input ordering.
func BestWeekday(entries []*model.TimeEntry) WeekdayInsight {
	type bucket struct {
		sum  float64
		days int
	}

	dailyEarned := make(map[string]float64)
	for _, e := range entries {
		if e == nil {
			continue
		}
		if _, ok := e.Day(); !ok {
			continue
		}
		dailyEarned[e.Date] += e.Earned.Float()
	}

	var buckets [7]bucket
	for date, earned := range dailyEarned {
		day, _ := timeutil.ParseDate(date)
		wd := int(day.Weekday())
		buckets[wd].sum += earned
		buckets[wd].days++
	}

	var best WeekdayInsight
	for wd := 0; wd < 7; wd++ {
		if buckets[wd].days == 0 {
			continue
		}
		avg := buckets[wd].sum / float64(buckets[wd].days)
		if !best.Valid || avg > best.AvgEarned {
			best = WeekdayInsight{
				Weekday:   time.Weekday(wd),
				AvgEarned: avg,
				Valid:     true,
			}
		}
	}

	return best
}

// PeakHours distributes each entry's earnings and duration proportionally
// across every clock hour its session spans, splitting at hour boundaries
// by elapsed minutes, then scans overlapping 2-hour windows for the one
// with the highest aggregate rate.
func PeakHours(entries []*model.TimeEntry) PeakInsight {
	var hourEarned, hourHours [24]float64

	for _, e := range entries {
		if e == nil {
			continue
		}
		start, ok := e.StartMinutes()
		if !ok {
			continue
		}
		hours := e.Hours()
		if hours <= 0 {
			continue
		}

		totalMin := hours * 60
		earned := e.Earned.Float()

		// Walk the session minute span, splitting at hour boundaries.
		offset := 0.0
		for offset < totalMin {
			minute := float64(start) + offset
			hourIdx := int(minute/60) % 24
			nextBoundary := (float64(int(minute/60)) + 1) * 60
			chunk := nextBoundary - minute
			if remaining := totalMin - offset; chunk > remaining {
				chunk = remaining
			}

			share := chunk / totalMin
			hourEarned[hourIdx] += earned * share
			hourHours[hourIdx] += chunk / 60

			offset += chunk
		}
	}

	var best PeakInsight
	for h := 0; h <= 24-peakWindowHours; h++ {
		var earned, hours float64
		for w := 0; w < peakWindowHours; w++ {
			earned += hourEarned[h+w]
			hours += hourHours[h+w]
		}
		if hours <= 0 {
			continue
		}
		rate := earned / hours
		if !best.Valid || rate > best.Rate {
			best = PeakInsight{
				StartHour: h,
				EndHour:   h + peakWindowHours,
				Rate:      rate,
				Hours:     hours,
				Earned:    earned,
				Valid:     true,
			}
		}
	}

	return best
}

// EarningsTrend buckets the trailing four weeks of entries into 7-day
// windows by recency and derives a direction from the first-vs-last valid
// weekly average, with a ±5% stability band. Fewer than 7 entries total,
// or fewer than 7 inside the trailing 28 days, reports insufficient data.
func EarningsTrend(entries []*model.TimeEntry, now time.Time) TrendInsight {
	if len(entries) < trendMinEntries {
		return TrendInsight{Direction: TrendInsufficient}
	}

	today := timeutil.StartOfDay(now)

	type week struct {
		sum  float64
		days map[string]struct{}
	}
	weeks := [4]week{}
	for i := range weeks {
		weeks[i].days = make(map[string]struct{})
	}

	recent := 0
	for _, e := range entries {
		if e == nil {
			continue
		}
		day, ok := e.Day()
		if !ok {
			continue
		}
		age := int(today.Sub(timeutil.StartOfDay(day)).Hours() / 24)
		if age < 0 || age >= trendWindowDays {
			continue
		}
		recent++

		idx := age / 7 // 0 = most recent week
		weeks[idx].sum += e.Earned.Float()
		weeks[idx].days[e.Date] = struct{}{}
	}

	if recent < trendMinEntries {
		return TrendInsight{Direction: TrendInsufficient}
	}

	// Weekly average is mean earnings per worked day in that window.
	newest, oldest := -1, -1
	var newestAvg, oldestAvg float64
	for i := 0; i < len(weeks); i++ {
		if len(weeks[i].days) == 0 {
			continue
		}
		avg := weeks[i].sum / float64(len(weeks[i].days))
		if newest == -1 {
			newest, newestAvg = i, avg
		}
		oldest, oldestAvg = i, avg
	}

	if newest == -1 || newest == oldest {
		return TrendInsight{Direction: TrendInsufficient}
	}

	changePct := timeutil.SafeDiv(newestAvg-oldestAvg, oldestAvg) * 100

	direction := TrendStable
	switch {
	case changePct > trendStabilityPct:
		direction = TrendUp
	case changePct < -trendStabilityPct:
		direction = TrendDown
	}

	return TrendInsight{
		Direction: direction,
		ChangePct: changePct,
		FirstAvg:  oldestAvg,
		LastAvg:   newestAvg,
	}
}

// LongestSession finds the single longest session in the set.
func LongestSession(entries []*model.TimeEntry) SessionInsight {
	var best SessionInsight
	for _, e := range entries {
		if e == nil {
			continue
		}
		hours := e.Hours()
		if !best.Valid || hours > best.Hours {
			best = SessionInsight{
				EntryID: e.ID,
				Date:    e.Date,
				Hours:   hours,
				Valid:   true,
			}
		}
	}
	return best
}

// TodayAnomaly compares today's total earnings against the average across
// all prior worked days. Without at least one prior worked day there is no
// baseline and the insight is invalid.
func TodayAnomaly(entries []*model.TimeEntry, now time.Time) AnomalyInsight {
	todayKey := timeutil.StartOfDay(now).Format(timeutil.DateLayout)

	var todayEarned float64
	history := make(map[string]float64)

	for _, e := range entries {
		if e == nil {
			continue
		}
		day, ok := e.Day()
		if !ok {
			continue
		}
		if e.Date == todayKey {
			todayEarned += e.Earned.Float()
			continue
		}
		if day.Before(timeutil.StartOfDay(now)) {
			history[e.Date] += e.Earned.Float()
		}
	}

	if len(history) == 0 {
		return AnomalyInsight{TodayEarned: todayEarned}
	}

	var sum float64
	for _, earned := range history {
		sum += earned
	}
	avg := sum / float64(len(history))

	deviation := timeutil.SafeDiv(todayEarned-avg, avg) * 100

	direction := TrendStable
	switch {
	case deviation > anomalyBandPct:
		direction = TrendUp
	case deviation < -anomalyBandPct:
		direction = TrendDown
	}

	return AnomalyInsight{
		TodayEarned:   todayEarned,
		HistoricalAvg: avg,
		DeviationPct:  deviation,
		Direction:     direction,
		Valid:         true,
	}
}
