// Package runtime provides application runtime context for Timeledger.
package runtime

import (
	"os"
	"path/filepath"

	"github.com/okulov/timeledger/internal/backup"
	"github.com/okulov/timeledger/internal/compute"
	"github.com/okulov/timeledger/internal/config"
	"github.com/okulov/timeledger/internal/output"
	"github.com/okulov/timeledger/internal/storage"
	"github.com/okulov/timeledger/internal/tabsync"
)

// Context holds the application runtime context: the database, the
// repositories on top of it, the long-lived services, and the output
// formatter. Close tears services down in reverse construction order.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter

	// Repositories
	EntryRepo    *storage.EntryRepo
	CategoryRepo *storage.CategoryRepo
	SettingsRepo *storage.SettingsRepo

	// Services
	Backups     *backup.Manager
	Sync        *tabsync.Manager
	Coordinator *compute.Coordinator

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool

	// SkipSync leaves the sync manager disabled; short-lived commands
	// that only read state have no mutations to broadcast.
	SkipSync bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Debug:     false,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	if envPath := os.Getenv("TIMELEDGER_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	entryRepo := storage.NewEntryRepo(db)
	categoryRepo := storage.NewCategoryRepo(db)
	settingsRepo := storage.NewSettingsRepo(db)

	backups := backup.NewManager(db, entryRepo, categoryRepo, settingsRepo)

	var sync *tabsync.Manager
	if !opts.SkipSync && !opts.InMemory {
		// The manager creates its spool directory next to the database.
		sync = tabsync.NewManager(filepath.Dir(opts.DBPath), config.Global.Sync.SpoolRetention)
	}

	coordinator := compute.NewCoordinator(config.Global.Compute.OffloadThreshold)

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		DB:           db,
		Formatter:    formatter,
		EntryRepo:    entryRepo,
		CategoryRepo: categoryRepo,
		SettingsRepo: settingsRepo,
		Backups:      backups,
		Sync:         sync,
		Coordinator:  coordinator,
		Debug:        opts.Debug,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.Coordinator != nil {
		c.Coordinator.Close()
	}
	if c.Sync != nil {
		c.Sync.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Broadcast sends a sync message when the sync manager is available.
func (c *Context) Broadcast(kind tabsync.Kind, payload interface{}) {
	if c.Sync == nil {
		return
	}
	_ = c.Sync.Broadcast(kind, payload)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
