package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/parser"
	"github.com/okulov/timeledger/internal/stats"
	"github.com/okulov/timeledger/internal/tabsync"
	"github.com/okulov/timeledger/internal/timeutil"
)

// Entries command flags.
var (
	entriesFlagPeriod string
	entriesFlagFrom   string
	entriesFlagTo     string
	entriesFlagLimit  int
)

// entriesCmd represents the entries command.
var entriesCmd = &cobra.Command{
	Use:     "entries",
	Aliases: []string{"ls", "list"},
	Short:   "List recorded entries",
	Long: `List recorded entries, optionally filtered by period.

Examples:
  timeledger entries
  timeledger entries --period week
  timeledger entries --from 'last monday' --to today`,
	RunE: runEntries,
}

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete an entry by id",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	entriesCmd.Flags().StringVarP(&entriesFlagPeriod, "period", "p", "all", "Period: today, week, month, year, all")
	entriesCmd.Flags().StringVar(&entriesFlagFrom, "from", "", "Start of a custom range")
	entriesCmd.Flags().StringVar(&entriesFlagTo, "to", "", "End of a custom range")
	entriesCmd.Flags().IntVarP(&entriesFlagLimit, "limit", "l", 0, "Show at most N entries (0 = all)")

	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(deleteCmd)
}

// parseDayArg resolves a CLI date argument to the start of its day.
func parseDayArg(arg string, now time.Time) (time.Time, error) {
	return parser.ParseDay(arg, now)
}

// resolvePeriod turns the shared period/from/to flags into filter inputs.
func resolvePeriod(period, fromArg, toArg string, now time.Time) (timeutil.Period, time.Time, time.Time, error) {
	var from, to time.Time

	if fromArg != "" || toArg != "" {
		var err error
		if fromArg != "" {
			if from, err = parseDayArg(fromArg, now); err != nil {
				return "", from, to, err
			}
		}
		if toArg != "" {
			if to, err = parseDayArg(toArg, now); err != nil {
				return "", from, to, err
			}
		}
		return timeutil.PeriodCustom, from, to, nil
	}

	switch period {
	case "today":
		return timeutil.PeriodToday, from, to, nil
	case "week":
		return timeutil.PeriodWeek, from, to, nil
	case "month":
		return timeutil.PeriodMonth, from, to, nil
	case "year":
		return timeutil.PeriodYear, from, to, nil
	case "all", "":
		return timeutil.PeriodAll, from, to, nil
	}
	return "", from, to, errors.NewUserErrorWithField("period", period,
		"Unknown period", "Use today, week, month, year or all")
}

func runEntries(cmd *cobra.Command, args []string) error {
	now := time.Now()
	period, from, to, err := resolvePeriod(entriesFlagPeriod, entriesFlagFrom, entriesFlagTo, now)
	if err != nil {
		return err
	}

	all, err := ctx.EntryRepo.List()
	if err != nil {
		return err
	}

	filtered := stats.Filter(all, period, from, to, now)
	total := len(filtered)
	if entriesFlagLimit > 0 && len(filtered) > entriesFlagLimit {
		filtered = filtered[len(filtered)-entriesFlagLimit:]
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEntries(filtered, total)
	}

	ctx.CLIFormatter().PrintEntries(filtered)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	entry, err := ctx.EntryRepo.GetByID(args[0])
	if err != nil {
		return err
	}

	if err := ctx.EntryRepo.Delete(entry.Key); err != nil {
		return err
	}

	ctx.Broadcast(tabsync.KindEntryDeleted, entry)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"status": "deleted", "id": entry.ID})
	}

	ctx.CLIFormatter().Success("Entry deleted")
	return nil
}
