package model

import (
	"fmt"
	"time"

	"github.com/okulov/timeledger/internal/timeutil"
)

// TimeEntry represents one recorded work interval. Entries are owned by the
// entry store; the statistics engine only ever reads them.
//
// Duration is an explicit override in hours. When present it takes
// precedence over the Start/End pair. A session whose End clock is earlier
// than its Start is treated as crossing midnight.
type TimeEntry struct {
	Key         string    `json:"key,omitempty"`
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Start       string    `json:"start,omitempty"`
	End         string    `json:"end,omitempty"`
	Duration    *Number   `json:"duration,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	Rate        Number    `json:"rate,omitempty"`
	Earned      Number    `json:"earned,omitempty"`
	Description string    `json:"description,omitempty"`
	Manual      bool      `json:"manual,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// SetKey sets the database key for this entry.
func (e *TimeEntry) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this entry.
func (e *TimeEntry) GetKey() string {
	return e.Key
}

// Hours returns the entry's duration in hours. The explicit Duration
// override wins; otherwise the Start/End pair is used with the midnight
// crossover rule. Entries missing both contribute 0.
func (e *TimeEntry) Hours() float64 {
	if e.Duration != nil {
		return timeutil.CoerceFloat(e.Duration.Float())
	}

	hours, ok := timeutil.ClockSpanHours(e.Start, e.End)
	if !ok {
		return 0
	}
	return hours
}

// Day returns the entry's calendar date, or ok=false when the date field
// is malformed.
func (e *TimeEntry) Day() (time.Time, bool) {
	return timeutil.ParseDate(e.Date)
}

// StartMinutes returns the entry's start clock in minutes after midnight.
func (e *TimeEntry) StartMinutes() (int, bool) {
	return timeutil.ParseClock(e.Start)
}

// GenerateEntryKey generates a database key for an entry.
func GenerateEntryKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixEntry, id)
}

// NewTimeEntry creates an entry for the given date and clock span.
func NewTimeEntry(id, date, start, end string, rate float64) *TimeEntry {
	now := time.Now()
	e := &TimeEntry{
		ID:        id,
		Date:      date,
		Start:     start,
		End:       end,
		Rate:      Number(rate),
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.Earned = Number(e.Hours() * rate)
	return e
}
