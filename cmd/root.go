// Package cmd provides the CLI commands for Timeledger.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/output"
	"github.com/okulov/timeledger/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "timeledger",
	Short: "A personal time and earnings ledger",
	Long: `Timeledger tracks your worked hours and earnings, and derives
statistics, insights and a productivity score from them.

Examples:
  timeledger add --start 09:00 --end 12:30 --rate 40
  timeledger entries --period week
  timeledger stats --period month
  timeledger insights
  timeledger backup create`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		var format output.Format
		switch flagFormat {
		case "json":
			format = output.FormatJSON
		case "plain":
			format = output.FormatPlain
		default:
			format = output.FormatCLI
		}

		var colorMode output.ColorMode
		switch flagColor {
		case "always":
			colorMode = output.ColorAlways
		case "never":
			colorMode = output.ColorNever
		default:
			colorMode = output.ColorAuto
		}

		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(opts)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: today's statistics
		statsFlagPeriod = "today"
		return runStats(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("timeledger %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		_ = ctx.JSONFormatter().PrintError("error", err.Error(), suggestionFor(err))
	} else {
		msg := err.Error()
		if suggestion := suggestionFor(err); suggestion != "" {
			msg += "\n" + suggestion
		}
		os.Stderr.WriteString("Error: " + msg + "\n")
	}
	os.Exit(1)
}

func suggestionFor(err error) string {
	if ue, ok := errors.AsUserError(err); ok {
		return ue.Suggestion
	}
	switch {
	case errors.Is(err, errors.ErrBackupNotFound):
		return "Use 'timeledger backup list' to see available backups."
	case errors.Is(err, errors.ErrEntryNotFound):
		return "Use 'timeledger entries' to see available entries."
	case errors.Is(err, errors.ErrImportFormat):
		return "Check that the file is a timeledger export."
	case errors.Is(err, errors.ErrStorageQuota):
		return "Free up disk space and try again. Recent data is kept in memory."
	}
	return ""
}
