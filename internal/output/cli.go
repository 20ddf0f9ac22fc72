package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/stats"
)

// Styles for CLI output.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleAmount = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	if c.IsColorEnabled() {
		c.Println(styleTitle.Render(text))
	} else {
		c.Println(text)
	}
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	if c.IsColorEnabled() {
		c.Println(styleSuccess.Render("✓ " + text))
	} else {
		c.Println("✓ " + text)
	}
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	if c.IsColorEnabled() {
		c.Println(styleWarning.Render("⚠ " + text))
	} else {
		c.Println("⚠ " + text)
	}
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	if c.IsColorEnabled() {
		c.Println(styleError.Render("✗ " + text))
	} else {
		c.Println("✗ " + text)
	}
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	if c.IsColorEnabled() {
		c.Println(styleMuted.Render(text))
	} else {
		c.Println(text)
	}
}

// Amount formats an earnings amount.
func (c *CLIFormatter) Amount(text string) string {
	if c.IsColorEnabled() {
		return styleAmount.Render(text)
	}
	return text
}

// entryClocks renders the time portion of an entry.
func entryClocks(e *model.TimeEntry) string {
	if e.Start != "" && e.End != "" {
		return e.Start + "–" + e.End
	}
	if e.Duration != nil {
		return FormatHours(e.Duration.Float())
	}
	return "-"
}

// PrintEntry prints one entry in detail.
func (c *CLIFormatter) PrintEntry(e *model.TimeEntry) {
	c.Printf("%s  %s  %s  earned %s\n",
		e.Date, entryClocks(e), FormatHours(e.Hours()), c.Amount(FormatMoney(e.Earned.Float())))
	if e.Description != "" {
		c.Muted("  " + e.Description)
	}
}

// PrintEntries prints a table of entries.
func (c *CLIFormatter) PrintEntries(entries []*model.TimeEntry) {
	if len(entries) == 0 {
		c.Muted("No entries.")
		return
	}

	rows := make([]TableRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, TableRow{Columns: []string{
			e.ID,
			e.Date,
			entryClocks(e),
			FormatHours(e.Hours()),
			FormatMoney(e.Rate.Float()),
			FormatMoney(e.Earned.Float()),
			e.Category,
		}})
	}
	c.PrintTable([]string{"ID", "DATE", "TIME", "HOURS", "RATE", "EARNED", "CATEGORY"}, rows)
}

// PrintStats prints aggregate statistics for a period.
func (c *CLIFormatter) PrintStats(label string, r stats.Result) {
	c.Title("Statistics — " + label)
	c.Printf("  Total hours:   %s\n", FormatHours(r.TotalHours))
	c.Printf("  Total earned:  %s\n", c.Amount(FormatMoney(r.TotalEarned)))
	c.Printf("  Average rate:  %s/h\n", FormatMoney(r.AvgRate))
	c.Printf("  Days worked:   %d\n", r.DaysWorked)
	c.Printf("  Days off:      %d\n", r.DaysOff)
	c.Printf("  Break time:    %s\n", FormatHours(r.TotalBreaks))
}

// PrintInsights prints the derived insights.
func (c *CLIFormatter) PrintInsights(in stats.Insights) {
	c.Title("Insights")

	if in.BestWeekday.Valid {
		c.Printf("  Best weekday:  %s (avg %s/day)\n",
			in.BestWeekday.Weekday, c.Amount(FormatMoney(in.BestWeekday.AvgEarned)))
	} else {
		c.Muted("  Best weekday:  not enough data")
	}

	if in.Peak.Valid {
		c.Printf("  Peak hours:    %02d:00–%02d:00 (%s earned over %s)\n",
			in.Peak.StartHour, in.Peak.EndHour,
			c.Amount(FormatMoney(in.Peak.Earned)), FormatHours(in.Peak.Hours))
	} else {
		c.Muted("  Peak hours:    not enough data")
	}

	switch in.Trend.Direction {
	case stats.TrendInsufficient:
		c.Muted("  Trend:         not enough data")
	case stats.TrendStable:
		c.Printf("  Trend:         stable (%+.1f%%)\n", in.Trend.ChangePct)
	default:
		c.Printf("  Trend:         %s %+.1f%%\n", in.Trend.Direction, in.Trend.ChangePct)
	}

	if in.Longest.Valid {
		c.Printf("  Longest day:   %s on %s\n",
			FormatHours(in.Longest.Hours), in.Longest.Date)
	}

	if in.Anomaly.Valid {
		c.Printf("  Today:         %s vs usual %s (%+.1f%%)\n",
			c.Amount(FormatMoney(in.Anomaly.TodayEarned)),
			FormatMoney(in.Anomaly.HistoricalAvg), in.Anomaly.DeviationPct)
	}
}

// PrintScore prints the productivity score with its factor breakdown.
func (c *CLIFormatter) PrintScore(s stats.Score) {
	c.Title("Productivity score")
	c.Printf("  %s  %s\n",
		styleRenderIf(c.IsColorEnabled(), styleBold, fmt.Sprintf("%d / 100", s.Score)),
		ProgressBar(float64(s.Score), 30))
	c.printFactor("Goal completion", s.Factors.GoalCompletion)
	c.printFactor("Consistency", s.Factors.Consistency)
	c.printFactor("Focus time", s.Factors.FocusTime)
	c.printFactor("Break balance", s.Factors.BreakBalance)
}

func (c *CLIFormatter) printFactor(name string, f stats.Factor) {
	c.Printf("  %-16s %5.1f / %-4.0f %s\n", name, f.Value, f.Max, ProgressBar(f.Percentage, 20))
}

// PrintBackups prints the backup history table.
func (c *CLIFormatter) PrintBackups(records []model.BackupRecord) {
	if len(records) == 0 {
		c.Muted("No backups yet.")
		return
	}

	rows := make([]TableRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, TableRow{Columns: []string{
			fmt.Sprintf("%d", r.ID),
			string(r.Kind),
			FormatTimeShort(r.Timestamp),
			fmt.Sprintf("%d", len(r.Data.Entries)),
		}})
	}
	c.PrintTable([]string{"ID", "KIND", "CREATED", "ENTRIES"}, rows)
}

func styleRenderIf(enabled bool, style lipgloss.Style, text string) string {
	if enabled {
		return style.Render(text)
	}
	return text
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of a simple table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	if c.IsColorEnabled() {
		c.Println(styleBold.Render(headerLine.String()))
	} else {
		c.Println(headerLine.String())
	}

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(sep.String())

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(rowLine.String())
	}
}
