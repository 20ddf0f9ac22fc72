package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/agent"
	"github.com/okulov/timeledger/internal/logging"
	"github.com/okulov/timeledger/internal/scheduler"
	"github.com/okulov/timeledger/internal/tabsync"
)

// agentCmd represents the agent command.
var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the background maintenance agent",
	Long: `Run the maintenance agent in the foreground. The agent creates
periodic auto-backups, cleans up the sync spool, and logs mutations
broadcast by other running timeledger instances. Stop with Ctrl-C.`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	pidFile := agent.NewPIDFile()
	if err := pidFile.Acquire(); err != nil {
		return err
	}
	defer pidFile.Release()

	sched := scheduler.NewScheduler(ctx.Backups, ctx.Sync)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	// Log peer mutations while running.
	if ctx.Sync != nil && !ctx.Sync.Disabled() {
		for _, kind := range []tabsync.Kind{
			tabsync.KindEntryAdded,
			tabsync.KindEntryUpdated,
			tabsync.KindEntryDeleted,
			tabsync.KindEntriesImported,
			tabsync.KindStateRestored,
		} {
			unsubscribe := ctx.Sync.Subscribe(kind, func(msg tabsync.Message) {
				logging.Info("peer mutation",
					logging.KeyKind, string(msg.Kind),
					logging.KeySource, msg.Source)
			})
			defer unsubscribe()
		}
	}

	cli := ctx.CLIFormatter()
	cli.Title("timeledger agent")
	cli.Muted("Auto-backup and sync maintenance running. Ctrl-C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cli.Muted("Shutting down.")
	return nil
}
