package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/compute"
	"github.com/okulov/timeledger/internal/timeutil"
)

// insightsCmd represents the insights command.
var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"in"},
	Short:   "Show derived insights",
	Long: `Show insights derived from the full entry history: best weekday,
peak earning hours, earnings trend, longest session and today's anomaly.`,
	RunE: runInsights,
}

// scoreCmd represents the score command.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the productivity score",
	Long: `Show the productivity score (0-100) with its factor breakdown:
goal completion, consistency, focus time and break balance.`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(scoreCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	entries, err := ctx.EntryRepo.List()
	if err != nil {
		return err
	}

	result, err := dispatch(compute.Request{
		Kind:    compute.KindInsights,
		Entries: entries,
		Period:  timeutil.PeriodAll,
		Now:     time.Now(),
	})
	if err != nil {
		return err
	}
	if result.Insights == nil {
		return fmt.Errorf("insights missing from computation result")
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintInsights(*result.Insights)
	}

	ctx.CLIFormatter().PrintInsights(*result.Insights)
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	entries, err := ctx.EntryRepo.List()
	if err != nil {
		return err
	}

	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	result, err := dispatch(compute.Request{
		Kind:      compute.KindScore,
		Entries:   entries,
		Period:    timeutil.PeriodAll,
		Now:       time.Now(),
		DailyGoal: settings.DailyGoal.Float(),
	})
	if err != nil {
		return err
	}
	if result.Score == nil {
		return fmt.Errorf("score missing from computation result")
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintScore(*result.Score)
	}

	ctx.CLIFormatter().PrintScore(*result.Score)
	return nil
}
