// Package config provides centralized configuration for Timeledger runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds all runtime configuration values that would otherwise
// be hardcoded as magic values throughout the codebase.
type RuntimeConfig struct {
	// Compute holds worker-offload configuration.
	Compute ComputeConfig

	// Backup holds snapshot history configuration.
	Backup BackupConfig

	// Sync holds cross-instance sync configuration.
	Sync SyncConfig

	// Scheduler holds background agent configuration.
	Scheduler SchedulerConfig

	// Storage holds storage-related configuration.
	Storage StorageConfig
}

// ComputeConfig holds worker-offload configuration.
type ComputeConfig struct {
	// OffloadThreshold is the filtered entry count above which a
	// computation is dispatched to the background worker instead of
	// running on the caller's goroutine.
	// Default: 500
	OffloadThreshold int
}

// BackupConfig holds snapshot history configuration.
type BackupConfig struct {
	// AutoInterval is the minimum wall-clock time between automatic
	// snapshots.
	// Default: 5m
	AutoInterval time.Duration

	// MaxBackups bounds the persisted history; the oldest record is
	// evicted first once the bound is exceeded.
	// Default: 10
	MaxBackups int
}

// SyncConfig holds cross-instance sync configuration.
type SyncConfig struct {
	// SpoolRetention is how long a broadcast message file stays in the
	// spool before garbage collection removes it.
	// Default: 30s
	SpoolRetention time.Duration
}

// SchedulerConfig holds background agent configuration.
type SchedulerConfig struct {
	// SleepThreshold is the time gap that indicates the system was
	// sleeping. If elapsed time since the last tick exceeds this, stale
	// checks are skipped.
	// Default: 1h
	SleepThreshold time.Duration
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// MinFreeSpace is the minimum free space required for write operations.
	// Default: 10MB
	MinFreeSpace uint64

	// MinFreeSpaceWarning is the threshold for warning about low disk space.
	// Default: 50MB
	MinFreeSpaceWarning uint64
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Compute: ComputeConfig{
			OffloadThreshold: 500,
		},
		Backup: BackupConfig{
			AutoInterval: 5 * time.Minute,
			MaxBackups:   10,
		},
		Sync: SyncConfig{
			SpoolRetention: 30 * time.Second,
		},
		Scheduler: SchedulerConfig{
			SleepThreshold: 1 * time.Hour,
		},
		Storage: StorageConfig{
			MinFreeSpace:        10 * 1024 * 1024,
			MinFreeSpaceWarning: 50 * 1024 * 1024,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("TIMELEDGER_OFFLOAD_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Compute.OffloadThreshold = n
		}
	}

	if v := os.Getenv("TIMELEDGER_BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backup.AutoInterval = d
		}
	}
	if v := os.Getenv("TIMELEDGER_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Backup.MaxBackups = n
		}
	}

	if v := os.Getenv("TIMELEDGER_SYNC_SPOOL_RETENTION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sync.SpoolRetention = d
		}
	}

	if v := os.Getenv("TIMELEDGER_SLEEP_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scheduler.SleepThreshold = d
		}
	}

	if v := os.Getenv("TIMELEDGER_MIN_FREE_SPACE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Storage.MinFreeSpace = n
		}
	}
	if v := os.Getenv("TIMELEDGER_MIN_FREE_SPACE_WARNING"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Storage.MinFreeSpaceWarning = n
		}
	}
}

// ReloadFromEnv reloads configuration from environment variables.
// This is useful for testing or when environment variables change.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	defaults := DefaultRuntimeConfig()
	*c = *defaults
}
