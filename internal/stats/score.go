package stats

import (
	"math"
	"time"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

// Factor weights of the productivity score composite.
const (
	maxGoalCompletion = 40.0
	maxConsistency    = 25.0
	maxFocusTime      = 20.0
	maxBreakBalance   = 15.0

	// consistencyWindowDays is the lookback for the consistency factor.
	consistencyWindowDays = 30

	// Healthy break band, in minutes.
	healthyBreakMin = 5.0
	healthyBreakMax = 30.0
)

// Factor is one weighted component of the productivity score.
type Factor struct {
	Value      float64 `json:"value"`
	Max        float64 `json:"max"`
	Percentage float64 `json:"percentage"`
}

// Factors holds the four score components.
type Factors struct {
	GoalCompletion Factor `json:"goal_completion"`
	Consistency    Factor `json:"consistency"`
	FocusTime      Factor `json:"focus_time"`
	BreakBalance   Factor `json:"break_balance"`
}

// Score is the 0-100 productivity composite.
type Score struct {
	Score   int     `json:"score"`
	Factors Factors `json:"factors"`
}

// CalculateProductivityScore computes the weighted 0-100 composite:
// goal completion (40), consistency (25), focus time (20) and break
// balance (15). dailyGoal is the earnings target per day; a zero or
// negative goal yields no goal-completion credit.
func CalculateProductivityScore(entries []*model.TimeEntry, dailyGoal float64, now time.Time) Score {
	byDate := groupByDate(entries)

	goal := goalCompletionFactor(byDate, dailyGoal)
	consistency := consistencyFactor(byDate, now)
	focus := focusTimeFactor(byDate)
	breaks := breakBalanceFactor(byDate)

	total := goal.Value + consistency.Value + focus.Value + breaks.Value
	total = math.Min(100, math.Max(0, total))

	return Score{
		Score: int(math.Round(total)),
		Factors: Factors{
			GoalCompletion: goal,
			Consistency:    consistency,
			FocusTime:      focus,
			BreakBalance:   breaks,
		},
	}
}

func makeFactor(ratio, max float64) Factor {
	ratio = math.Min(1, math.Max(0, ratio))
	return Factor{
		Value:      ratio * max,
		Max:        max,
		Percentage: ratio * 100,
	}
}

// goalCompletionFactor averages min(100, earned/dailyGoal*100) across days
// with entries.
func goalCompletionFactor(byDate map[string][]*model.TimeEntry, dailyGoal float64) Factor {
	if dailyGoal <= 0 || len(byDate) == 0 {
		return makeFactor(0, maxGoalCompletion)
	}

	var sum float64
	for _, day := range byDate {
		var earned float64
		for _, e := range day {
			earned += e.Earned.Float()
		}
		sum += math.Min(100, timeutil.SafeDiv(earned, dailyGoal)*100)
	}

	avgPct := sum / float64(len(byDate))
	return makeFactor(avgPct/100, maxGoalCompletion)
}

// consistencyFactor is the share of the last 30 calendar days that have at
// least one entry.
func consistencyFactor(byDate map[string][]*model.TimeEntry, now time.Time) Factor {
	today := timeutil.StartOfDay(now)

	worked := 0
	for d := 0; d < consistencyWindowDays; d++ {
		key := today.AddDate(0, 0, -d).Format(timeutil.DateLayout)
		if _, ok := byDate[key]; ok {
			worked++
		}
	}

	return makeFactor(float64(worked)/consistencyWindowDays, maxConsistency)
}

// focusTimeFactor averages, across worked days, the share of that day's
// hours spent in its single longest session.
func focusTimeFactor(byDate map[string][]*model.TimeEntry) Factor {
	if len(byDate) == 0 {
		return makeFactor(0, maxFocusTime)
	}

	var sum float64
	for _, day := range byDate {
		var longest, total float64
		for _, e := range day {
			hours := e.Hours()
			total += hours
			if hours > longest {
				longest = hours
			}
		}
		sum += timeutil.SafeDiv(longest, total)
	}

	return makeFactor(sum/float64(len(byDate)), maxFocusTime)
}

// breakBalanceFactor rewards gaps in the healthy 5-30 minute range. With
// no measurable gaps at all the factor is full: nothing suggests an
// unhealthy rhythm.
func breakBalanceFactor(byDate map[string][]*model.TimeEntry) Factor {
	healthy, total := 0, 0

	for _, day := range byDate {
		sessions := daySessions(day)
		for i := 1; i < len(sessions); i++ {
			gapMin := float64(sessions[i].startMin - sessions[i-1].endMin)
			if gapMin <= 0 || gapMin >= breakExclusionHours*60 {
				continue
			}
			total++
			if gapMin >= healthyBreakMin && gapMin <= healthyBreakMax {
				healthy++
			}
		}
	}

	if total == 0 {
		return makeFactor(1, maxBreakBalance)
	}

	return makeFactor(float64(healthy)/float64(total), maxBreakBalance)
}
