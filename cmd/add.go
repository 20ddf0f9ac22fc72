package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/parser"
	"github.com/okulov/timeledger/internal/tabsync"
	"github.com/okulov/timeledger/internal/validate"
)

// Add command flags.
var (
	addFlagDate     string
	addFlagStart    string
	addFlagEnd      string
	addFlagDuration string
	addFlagRate     float64
	addFlagCategory string
	addFlagNote     string
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"log", "a"},
	Short:   "Record a work entry",
	Long: `Record a work entry with clock times or an explicit duration.

An entry whose end clock is earlier than its start is treated as
crossing midnight. When --duration is given it overrides the clock span.

Examples:
  timeledger add --start 09:00 --end 12:30 --rate 40
  timeledger add --date yesterday --start 22:00 --end 02:00 --rate 35
  timeledger add --duration 3h --rate 50 --note 'offsite workshop'`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addFlagDate, "date", "d", "today", "Entry date (YYYY-MM-DD or a phrase like 'yesterday')")
	addCmd.Flags().StringVarP(&addFlagStart, "start", "s", "", "Start clock, 24-hour HH:MM")
	addCmd.Flags().StringVarP(&addFlagEnd, "end", "e", "", "End clock, 24-hour HH:MM")
	addCmd.Flags().StringVar(&addFlagDuration, "duration", "", "Explicit duration (overrides start/end), e.g. '2h30m'")
	addCmd.Flags().Float64VarP(&addFlagRate, "rate", "r", 0, "Hourly rate")
	addCmd.Flags().StringVarP(&addFlagCategory, "category", "c", "", "Category name")
	addCmd.Flags().StringVarP(&addFlagNote, "note", "n", "", "Description")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	date, err := parser.ParseDayString(addFlagDate, time.Now())
	if err != nil {
		return err
	}

	entry := model.NewTimeEntry("", date, addFlagStart, addFlagEnd, addFlagRate)
	entry.Category = validate.SanitizeCategoryName(addFlagCategory)
	entry.Description = validate.SanitizeDescription(addFlagNote)
	entry.Manual = true

	if addFlagDuration != "" {
		hours, err := parser.ParseDurationHours(addFlagDuration)
		if err != nil {
			return err
		}
		entry.Duration = model.NumberPtr(hours)
		entry.Earned = model.Number(entry.Hours() * addFlagRate)
	}

	if err := validate.Entry(entry); err != nil {
		return err
	}

	if err := ctx.EntryRepo.Create(entry); err != nil {
		return err
	}

	ctx.Broadcast(tabsync.KindEntryAdded, entry)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(entry)
	}

	cli := ctx.CLIFormatter()
	cli.Success("Entry recorded")
	cli.PrintEntry(entry)
	return nil
}
