package model

import "time"

// BackupKind distinguishes scheduled snapshots from user-requested ones.
// Both kinds are evicted identically once the history is full.
type BackupKind string

const (
	BackupAuto   BackupKind = "auto"
	BackupManual BackupKind = "manual"
)

// SchemaVersion is stamped into every snapshot and export document.
const SchemaVersion = "2"

// Snapshot is a full copy of the user's state at one point in time.
type Snapshot struct {
	Entries       []TimeEntry `json:"entries"`
	Categories    []Category  `json:"categories"`
	Settings      *Settings   `json:"settings,omitempty"`
	SchemaVersion string      `json:"schemaVersion"`
}

// BackupRecord is one element of the persisted backup history. Records are
// created on trigger and never mutated afterwards.
type BackupRecord struct {
	ID        int64      `json:"id"`
	Kind      BackupKind `json:"kind"`
	Timestamp time.Time  `json:"timestamp"`
	Data      Snapshot   `json:"data"`
}

// BackupExport is the envelope written by the export operation and accepted
// by import.
type BackupExport struct {
	SchemaVersion string         `json:"schemaVersion"`
	ExportDate    time.Time      `json:"exportDate"`
	Backups       []BackupRecord `json:"backups"`
}
