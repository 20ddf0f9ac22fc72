package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
)

func TestDate(t *testing.T) {
	assert.NoError(t, Date("2026-03-14"))
	assert.Error(t, Date("03/14/2026"))
	assert.Error(t, Date("2026-13-01"))
	assert.Error(t, Date(""))
}

func TestClock(t *testing.T) {
	assert.NoError(t, Clock("start", "09:30"))
	assert.NoError(t, Clock("start", "")) // duration-only entries carry no clocks
	assert.Error(t, Clock("start", "24:00"))
	assert.Error(t, Clock("end", "12:60"))
	assert.Error(t, Clock("end", "noonish"))
}

func TestRate(t *testing.T) {
	assert.NoError(t, Rate(0))
	assert.NoError(t, Rate(85.5))
	assert.Error(t, Rate(-1))
}

func TestDescription(t *testing.T) {
	assert.NoError(t, Description(""))
	assert.NoError(t, Description(strings.Repeat("x", MaxDescriptionLength)))
	assert.Error(t, Description(strings.Repeat("x", MaxDescriptionLength+1)))
}

func TestCategoryName(t *testing.T) {
	assert.NoError(t, CategoryName("consulting"))
	assert.Error(t, CategoryName("   "))
	assert.Error(t, CategoryName(strings.Repeat("x", MaxCategoryNameLength+1)))
}

func TestEntry(t *testing.T) {
	t.Run("clocked entry", func(t *testing.T) {
		entry := model.NewTimeEntry("", "2026-08-28", "09:00", "17:00", 50)
		assert.NoError(t, Entry(entry))
	})

	t.Run("duration-only entry", func(t *testing.T) {
		entry := model.NewTimeEntry("", "2026-08-28", "", "", 50)
		entry.Duration = model.NumberPtr(2.5)
		assert.NoError(t, Entry(entry))
	})

	t.Run("rejected entries", func(t *testing.T) {
		noTime := model.NewTimeEntry("", "2026-08-28", "", "", 50)

		startOnly := model.NewTimeEntry("", "2026-08-28", "09:00", "", 50)

		zeroDuration := model.NewTimeEntry("", "2026-08-28", "", "", 50)
		zeroDuration.Duration = model.NumberPtr(0)

		badDate := model.NewTimeEntry("", "not-a-date", "09:00", "17:00", 50)

		badClock := model.NewTimeEntry("", "2026-08-28", "25:00", "17:00", 50)

		negativeRate := model.NewTimeEntry("", "2026-08-28", "09:00", "17:00", -5)

		for name, entry := range map[string]*model.TimeEntry{
			"nil":           nil,
			"no time info":  noTime,
			"start only":    startOnly,
			"zero duration": zeroDuration,
			"bad date":      badDate,
			"bad clock":     badClock,
			"negative rate": negativeRate,
		} {
			err := Entry(entry)
			require.Error(t, err, name)
			assert.True(t, errors.IsUserError(err), name)
		}
	})
}

func TestImportDocument(t *testing.T) {
	assert.NoError(t, ImportDocument([]*model.TimeEntry{}))

	err := ImportDocument(nil)
	assert.ErrorIs(t, err, errors.ErrImportFormat)
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("name", "x"))
	assert.Error(t, NonEmpty("name", "  "))
}

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "client call", SanitizeDescription("  client call  "))
	assert.Equal(t, "a\nb", SanitizeDescription("a\r\nb"))
	assert.Equal(t, "a\nb", SanitizeDescription("a\rb"))
	assert.Equal(t, "ab", SanitizeDescription("a\x00b"))
}

func TestSanitizeCategoryName(t *testing.T) {
	assert.Equal(t, "Design", SanitizeCategoryName("  Design "))
	assert.Equal(t, "ab", SanitizeCategoryName("a\tb"))
	assert.Equal(t, "café", SanitizeCategoryName("café"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "lon...", TruncateString("longer text", 6))
	assert.Equal(t, "lo", TruncateString("longer", 2))
}
