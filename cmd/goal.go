package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/tabsync"
)

// Goal command flags.
var (
	goalFlagDaily float64
	goalFlagHours float64
)

// goalCmd represents the goal command.
var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or set the daily earnings goal",
	Long: `Show or set the daily earnings goal and expected daily hours.
The goal feeds the productivity score's goal-completion factor.

Examples:
  timeledger goal
  timeledger goal --daily 400
  timeledger goal --daily 400 --hours 6`,
	RunE: runGoal,
}

func init() {
	goalCmd.Flags().Float64Var(&goalFlagDaily, "daily", -1, "Daily earnings goal")
	goalCmd.Flags().Float64Var(&goalFlagHours, "hours", -1, "Expected daily working hours")

	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	settings, err := ctx.SettingsRepo.Get()
	if err != nil {
		return err
	}

	changed := false
	if goalFlagDaily >= 0 {
		settings.DailyGoal = model.Number(goalFlagDaily)
		changed = true
	}
	if goalFlagHours >= 0 {
		if goalFlagHours > 24 {
			return errors.NewUserError("Daily hours cannot exceed 24",
				"Provide a value between 0 and 24")
		}
		settings.DailyHours = model.Number(goalFlagHours)
		changed = true
	}

	if changed {
		if err := ctx.SettingsRepo.Update(settings); err != nil {
			return err
		}
		ctx.Broadcast(tabsync.KindSettingsChanged, settings)
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(settings)
	}

	cli := ctx.CLIFormatter()
	if changed {
		cli.Success("Goal updated")
	}
	cli.Printf("  Daily goal:   %s\n", cli.Amount(fmt.Sprintf("%.2f", settings.DailyGoal.Float())))
	cli.Printf("  Daily hours:  %.1f\n", settings.DailyHours.Float())
	return nil
}
