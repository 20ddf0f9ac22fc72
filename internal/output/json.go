package output

import (
	"time"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/stats"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{Status: status, Error: errMsg, Message: message})
}

// EntriesResponse represents the entries list output in JSON.
type EntriesResponse struct {
	Entries    []*model.TimeEntry `json:"entries"`
	TotalCount int                `json:"total_count"`
	ShownCount int                `json:"shown_count"`
	TotalHours float64            `json:"total_hours"`
}

// PrintEntries outputs entries in JSON format.
func (j *JSONFormatter) PrintEntries(entries []*model.TimeEntry, total int) error {
	var hours float64
	for _, e := range entries {
		hours += e.Hours()
	}
	return j.JSON(EntriesResponse{
		Entries:    entries,
		TotalCount: total,
		ShownCount: len(entries),
		TotalHours: hours,
	})
}

// StatsResponse represents statistics output in JSON.
type StatsResponse struct {
	Period string       `json:"period"`
	Start  string       `json:"start,omitempty"`
	End    string       `json:"end,omitempty"`
	Stats  stats.Result `json:"stats"`
}

// PrintStats outputs statistics in JSON format.
func (j *JSONFormatter) PrintStats(period string, start, end time.Time, r stats.Result) error {
	resp := StatsResponse{Period: period, Stats: r}
	if !start.IsZero() {
		resp.Start = FormatDate(start)
	}
	if !end.IsZero() {
		resp.End = FormatDate(end)
	}
	return j.JSON(resp)
}

// InsightsResponse represents insights output in JSON.
type InsightsResponse struct {
	Insights stats.Insights `json:"insights"`
}

// PrintInsights outputs insights in JSON format.
func (j *JSONFormatter) PrintInsights(in stats.Insights) error {
	return j.JSON(InsightsResponse{Insights: in})
}

// ScoreResponse represents the productivity score output in JSON.
type ScoreResponse struct {
	Score stats.Score `json:"score"`
}

// PrintScore outputs the productivity score in JSON format.
func (j *JSONFormatter) PrintScore(s stats.Score) error {
	return j.JSON(ScoreResponse{Score: s})
}

// BackupSummary is one backup in list output; snapshots are summarized,
// not inlined.
type BackupSummary struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Entries   int    `json:"entries"`
}

// BackupsResponse represents the backup list output in JSON.
type BackupsResponse struct {
	Backups []BackupSummary `json:"backups"`
}

// PrintBackups outputs the backup history in JSON format.
func (j *JSONFormatter) PrintBackups(records []model.BackupRecord) error {
	out := make([]BackupSummary, 0, len(records))
	for _, r := range records {
		out = append(out, BackupSummary{
			ID:        r.ID,
			Kind:      string(r.Kind),
			Timestamp: r.Timestamp.Format(time.RFC3339),
			Entries:   len(r.Data.Entries),
		})
	}
	return j.JSON(BackupsResponse{Backups: out})
}
