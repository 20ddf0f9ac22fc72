package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/compute"
	"github.com/okulov/timeledger/internal/timeutil"
)

// Stats command flags.
var (
	statsFlagPeriod string
	statsFlagFrom   string
	statsFlagTo     string
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"stat", "st"},
	Short:   "Show hours and earnings statistics",
	Long: `Show aggregated statistics for a period: total hours, earnings,
average rate, days worked, days off and break time.

Examples:
  timeledger stats
  timeledger stats --period month
  timeledger stats --from 'last monday' --to today`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsFlagPeriod, "period", "p", "week", "Period: today, week, month, year, all")
	statsCmd.Flags().StringVar(&statsFlagFrom, "from", "", "Start of a custom range")
	statsCmd.Flags().StringVar(&statsFlagTo, "to", "", "End of a custom range")

	rootCmd.AddCommand(statsCmd)
}

// dispatch runs one computation through the coordinator and waits for the
// result, falling back to the last applied result if this request lost a
// generation race.
func dispatch(req compute.Request) (*compute.ResultSet, error) {
	handle, err := ctx.Coordinator.Compute(context.Background(), req)
	if err != nil {
		return nil, err
	}

	result, err := handle.Wait(context.Background())
	if err != nil {
		if cached := ctx.Coordinator.Applied(req.Kind); cached != nil {
			return cached, nil
		}
		return nil, err
	}
	return result, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	now := time.Now()
	period, from, to, err := resolvePeriod(statsFlagPeriod, statsFlagFrom, statsFlagTo, now)
	if err != nil {
		return err
	}

	entries, err := ctx.EntryRepo.List()
	if err != nil {
		return err
	}

	result, err := dispatch(compute.Request{
		Kind:    compute.KindStatistics,
		Entries: entries,
		Period:  period,
		From:    from,
		To:      to,
		Now:     now,
	})
	if err != nil {
		return err
	}
	if result.Statistics == nil {
		return fmt.Errorf("statistics missing from computation result")
	}

	window := timeutil.PeriodWindow(period, now, from, to)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStats(string(period), window.Start, window.End, *result.Statistics)
	}

	ctx.CLIFormatter().PrintStats(periodLabel(period, window), *result.Statistics)
	return nil
}

func periodLabel(period timeutil.Period, w timeutil.Window) string {
	if period == timeutil.PeriodAll || w.IsZero() {
		return "all time"
	}
	if period == timeutil.PeriodCustom {
		return fmt.Sprintf("%s to %s",
			w.Start.Format(timeutil.DateLayout),
			w.End.AddDate(0, 0, -1).Format(timeutil.DateLayout))
	}
	return string(period)
}
