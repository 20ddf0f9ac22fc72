package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/timeledger/internal/errors"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)

	t.Run("canonical form", func(t *testing.T) {
		day, err := ParseDay("2026-03-02", now)
		require.NoError(t, err)
		assert.Equal(t, "2026-03-02", day.Format("2006-01-02"))
		assert.Equal(t, 0, day.Hour())
	})

	t.Run("shortcuts", func(t *testing.T) {
		day, err := ParseDay("today", now)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-28", day.Format("2006-01-02"))

		day, err = ParseDay("Yesterday", now)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-27", day.Format("2006-01-02"))
	})

	t.Run("natural language", func(t *testing.T) {
		// 2026-08-28 is a Friday; the previous Monday is the 24th.
		day, err := ParseDay("last monday", now)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-24", day.Format("2006-01-02"))

		day, err = ParseDay("3 days ago", now)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-25", day.Format("2006-01-02"))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, input := range []string{"", "   ", "the day the music died"} {
			_, err := ParseDay(input, now)
			require.Error(t, err)
			assert.True(t, errors.IsUserError(err), "input %q", input)
		}
	})
}

func TestParseDayString(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)

	s, err := ParseDayString("yesterday", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-27", s)

	_, err = ParseDayString("???", now)
	assert.Error(t, err)
}

func TestParseDurationHours(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"2h", 2, false},
		{"90m", 1.5, false},
		{"1h30m", 1.5, false},
		{"1h 30m", 1.5, false},
		{"2.5h", 2.5, false},
		{"2.5", 2.5, false}, // bare numbers are hours
		{"45 minutes", 0.75, false},
		{"1 Hour", 1, false},
		{"", 0, true},
		{"0h", 0, true},
		{"-2h", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDurationHours(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUserError(err))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
