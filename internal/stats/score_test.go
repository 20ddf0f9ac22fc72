package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/timeledger/internal/model"
)

func TestProductivityScoreEmpty(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	score := CalculateProductivityScore(nil, 1000, now)

	// No goal progress, no worked days, no focus. Break balance stays
	// full because no gaps means nothing unhealthy was observed.
	assert.Equal(t, 0.0, score.Factors.GoalCompletion.Value)
	assert.Equal(t, 0.0, score.Factors.Consistency.Value)
	assert.Equal(t, 0.0, score.Factors.FocusTime.Value)
	assert.Equal(t, maxBreakBalance, score.Factors.BreakBalance.Value)
	assert.Equal(t, 15, score.Score)
}

func TestProductivityScoreGoalCompletion(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("no goal configured", func(t *testing.T) {
		entries := []*model.TimeEntry{entry("2026-08-28", "09:00", "17:00", 100)}

		score := CalculateProductivityScore(entries, 0, now)
		assert.Equal(t, 0.0, score.Factors.GoalCompletion.Value)

		score = CalculateProductivityScore(entries, -50, now)
		assert.Equal(t, 0.0, score.Factors.GoalCompletion.Value)
	})

	t.Run("goal met exactly", func(t *testing.T) {
		// 8h * 100/h = 800 earned against an 800 goal.
		entries := []*model.TimeEntry{entry("2026-08-28", "09:00", "17:00", 100)}

		score := CalculateProductivityScore(entries, 800, now)
		assert.InDelta(t, maxGoalCompletion, score.Factors.GoalCompletion.Value, 1e-9)
		assert.InDelta(t, 100, score.Factors.GoalCompletion.Percentage, 1e-9)
	})

	t.Run("overshoot capped per day", func(t *testing.T) {
		// Day one earns 4x the goal, day two earns nothing toward it.
		// The cap keeps day one at 100%, so the average is 50%, not 200%.
		entries := []*model.TimeEntry{
			entry("2026-08-27", "09:00", "17:00", 400),
			entry("2026-08-28", "09:00", "17:00", 0),
		}

		score := CalculateProductivityScore(entries, 800, now)
		assert.InDelta(t, maxGoalCompletion*0.5, score.Factors.GoalCompletion.Value, 1e-9)
	})
}

func TestProductivityScoreConsistency(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// 15 of the trailing 30 days worked.
	var entries []*model.TimeEntry
	for d := 0; d < 15; d++ {
		date := now.AddDate(0, 0, -d).Format("2006-01-02")
		entries = append(entries, entry(date, "09:00", "10:00", 100))
	}
	// Entries outside the window must not count.
	entries = append(entries, entry("2026-07-01", "09:00", "10:00", 100))

	score := CalculateProductivityScore(entries, 0, now)
	assert.InDelta(t, maxConsistency*0.5, score.Factors.Consistency.Value, 1e-9)
}

func TestProductivityScoreFocusTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("single session is full focus", func(t *testing.T) {
		entries := []*model.TimeEntry{entry("2026-08-28", "09:00", "17:00", 100)}

		score := CalculateProductivityScore(entries, 0, now)
		assert.InDelta(t, maxFocusTime, score.Factors.FocusTime.Value, 1e-9)
	})

	t.Run("fragmented day scores lower", func(t *testing.T) {
		// Four equal 1h sessions: longest/total = 0.25.
		entries := []*model.TimeEntry{
			entry("2026-08-28", "09:00", "10:00", 100),
			entry("2026-08-28", "11:00", "12:00", 100),
			entry("2026-08-28", "13:00", "14:00", 100),
			entry("2026-08-28", "15:00", "16:00", 100),
		}

		score := CalculateProductivityScore(entries, 0, now)
		assert.InDelta(t, maxFocusTime*0.25, score.Factors.FocusTime.Value, 1e-9)
	})
}

func TestProductivityScoreBreakBalance(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("healthy breaks keep full credit", func(t *testing.T) {
		// 15 minute gap between sessions.
		entries := []*model.TimeEntry{
			entry("2026-08-28", "09:00", "12:00", 100),
			entry("2026-08-28", "12:15", "15:00", 100),
		}

		score := CalculateProductivityScore(entries, 0, now)
		assert.InDelta(t, maxBreakBalance, score.Factors.BreakBalance.Value, 1e-9)
	})

	t.Run("long breaks lose credit", func(t *testing.T) {
		// One healthy 15m gap, one 3h gap.
		entries := []*model.TimeEntry{
			entry("2026-08-28", "09:00", "10:00", 100),
			entry("2026-08-28", "10:15", "11:00", 100),
			entry("2026-08-28", "14:00", "15:00", 100),
		}

		score := CalculateProductivityScore(entries, 0, now)
		assert.InDelta(t, maxBreakBalance*0.5, score.Factors.BreakBalance.Value, 1e-9)
	})

	t.Run("overnight gaps ignored", func(t *testing.T) {
		// A 13h gap is a day boundary, not a break.
		entries := []*model.TimeEntry{
			entry("2026-08-28", "01:00", "02:00", 100),
			entry("2026-08-28", "15:30", "16:30", 100),
		}

		score := CalculateProductivityScore(entries, 0, now)
		assert.InDelta(t, maxBreakBalance, score.Factors.BreakBalance.Value, 1e-9)
	})
}

func TestProductivityScoreComposite(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	// A perfect day: goal met, one contiguous session today.
	entries := []*model.TimeEntry{entry("2026-08-28", "09:00", "17:00", 100)}

	score := CalculateProductivityScore(entries, 800, now)

	require.Equal(t, maxGoalCompletion, score.Factors.GoalCompletion.Max)
	require.Equal(t, maxConsistency, score.Factors.Consistency.Max)
	require.Equal(t, maxFocusTime, score.Factors.FocusTime.Max)
	require.Equal(t, maxBreakBalance, score.Factors.BreakBalance.Max)

	// 40 (goal) + 25/30 (one of thirty days) + 20 (focus) + 15 (breaks)
	// = 75.83, rounded to 76.
	assert.Equal(t, 76, score.Score)
	assert.LessOrEqual(t, score.Score, 100)
}
