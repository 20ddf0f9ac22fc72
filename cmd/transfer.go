package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/tabsync"
	"github.com/okulov/timeledger/internal/validate"
)

// entryExport is the envelope for entry import/export files.
type entryExport struct {
	SchemaVersion string             `json:"schemaVersion"`
	ExportDate    time.Time          `json:"exportDate"`
	Entries       []*model.TimeEntry `json:"entries"`
}

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export all entries to a JSON file (or stdout)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import entries from a JSON export",
	Long: `Import entries from a previously exported JSON file. Entries are
added; nothing is deleted. Malformed records are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	entries, err := ctx.EntryRepo.List()
	if err != nil {
		return err
	}

	w := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	doc := entryExport{
		SchemaVersion: model.SchemaVersion,
		ExportDate:    time.Now(),
		Entries:       entries,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}

	if len(args) == 1 && !ctx.IsJSON() {
		ctx.CLIFormatter().Success(fmt.Sprintf("Exported %d entries to %s", len(entries), args[0]))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var doc entryExport
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return errors.Wrap(errors.ErrImportFormat, "not an entry export")
	}
	if err := validate.ImportDocument(doc.Entries); err != nil {
		return err
	}

	imported, err := ctx.EntryRepo.Import(doc.Entries)
	if err != nil {
		return err
	}

	ctx.Broadcast(tabsync.KindEntriesImported, map[string]int{"count": imported})

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "imported", "count": imported})
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Imported %d entries", imported))
	return nil
}
