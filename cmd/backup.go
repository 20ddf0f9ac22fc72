package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/tabsync"
)

// Backup command flags.
var (
	backupCleanupFlagDays int
	backupRestoreFlagYes  bool
)

// backupCmd represents the backup command.
var backupCmd = &cobra.Command{
	Use:   "backup [command]",
	Short: "Manage state backups",
	Long: `Manage the bounded backup history: create snapshots, list them,
restore one wholesale, export them to a file or import a previous export.

Examples:
  timeledger backup create
  timeledger backup list
  timeledger backup restore 1761825600000
  timeledger backup export backups.json
  timeledger backup cleanup --days 30`,
	RunE: runBackupList,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manual backup now",
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the backup history, newest first",
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore all state from a backup",
	Long: `Replace all entries, categories and settings with the snapshot of
the given backup. This is wholesale, not a merge.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupRestore,
}

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove backups older than a cutoff",
	RunE:  runBackupCleanup,
}

var backupExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the backup history to a JSON file (or stdout)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge a previously exported backup history",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

func init() {
	backupCleanupCmd.Flags().IntVar(&backupCleanupFlagDays, "days", 30, "Remove backups older than this many days")
	backupRestoreCmd.Flags().BoolVarP(&backupRestoreFlagYes, "yes", "y", false, "Skip the confirmation prompt")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupCleanupCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	record, err := ctx.Backups.CreateManualBackup()
	if err != nil {
		if record == nil {
			return err
		}
		// Persist failed but the record is held in memory.
		ctx.CLIFormatter().Warning(err.Error())
	}

	ctx.Broadcast(tabsync.KindBackupCreated, record)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "created", "id": record.ID})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Backup %d created", record.ID))
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	records := ctx.Backups.List()

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintBackups(records)
	}

	ctx.CLIFormatter().PrintBackups(records)
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.NewUserErrorWithField("id", args[0],
			"Invalid backup id", "Use 'timeledger backup list' to see available ids")
	}

	if !backupRestoreFlagYes && !ctx.IsJSON() {
		cli := ctx.CLIFormatter()
		cli.Warning("Restoring replaces ALL current entries, categories and settings.")
		cli.Print("Continue? [y/N] ")
		var answer string
		fmt.Fscanln(os.Stdin, &answer)
		if answer != "y" && answer != "Y" && answer != "yes" {
			cli.Muted("Aborted.")
			return nil
		}
	}

	if err := ctx.Backups.Restore(id); err != nil {
		return err
	}

	ctx.Broadcast(tabsync.KindStateRestored, map[string]int64{"backup_id": id})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "restored", "id": id})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("State restored from backup %d", id))
	return nil
}

func runBackupCleanup(cmd *cobra.Command, args []string) error {
	removed, err := ctx.Backups.Cleanup(time.Duration(backupCleanupFlagDays) * 24 * time.Hour)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "cleaned", "removed": removed})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Removed %d old backups", removed))
	return nil
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	w := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := ctx.Backups.Export(w); err != nil {
		return err
	}

	if len(args) == 1 && !ctx.IsJSON() {
		ctx.CLIFormatter().Success("Backups exported to " + args[0])
	}
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	added, err := ctx.Backups.Import(f)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "imported", "added": added})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Imported %d backups", added))
	return nil
}
