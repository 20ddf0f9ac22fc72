// Package backup maintains a bounded, time-ordered history of full-state
// snapshots, independent of any undo stack, to recover from accidental bulk
// loss. The history is one JSON document under a fixed storage key. When
// persistence fails the manager keeps working against its in-memory copy
// for the rest of the session; backup never blocks entry tracking.
package backup

import (
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/okulov/timeledger/internal/config"
	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/logging"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/storage"
)

// Manager owns the backup history. Construct with NewManager and inject
// it; there is no package-level singleton.
type Manager struct {
	db           *storage.DB
	entries      *storage.EntryRepo
	categories   *storage.CategoryRepo
	settings     *storage.SettingsRepo
	maxBackups   int
	autoInterval time.Duration

	mu sync.Mutex
	// records is ordered oldest first; eviction truncates the front.
	records []model.BackupRecord
	lastID  int64
}

// NewManager loads the persisted history and returns a ready manager.
// A malformed or missing history document starts the session with an
// empty history rather than failing.
func NewManager(db *storage.DB, entries *storage.EntryRepo, categories *storage.CategoryRepo, settings *storage.SettingsRepo) *Manager {
	m := &Manager{
		db:           db,
		entries:      entries,
		categories:   categories,
		settings:     settings,
		maxBackups:   config.Global.Backup.MaxBackups,
		autoInterval: config.Global.Backup.AutoInterval,
	}
	m.load()
	return m
}

func (m *Manager) load() {
	raw, err := m.db.GetBytes(model.KeyBackups)
	if err != nil {
		if !storage.IsErrKeyNotFound(err) {
			logging.Warn("backup history unreadable, starting empty", logging.KeyError, err)
		}
		return
	}

	var records []model.BackupRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		logging.Warn("backup history malformed, starting empty", logging.KeyError, err)
		return
	}

	sortRecords(records)
	m.records = records
	if n := len(records); n > 0 {
		m.lastID = records[n-1].ID
	}
}

// CreateManualBackup snapshots the current state on user request.
func (m *Manager) CreateManualBackup() (*model.BackupRecord, error) {
	return m.create(model.BackupManual)
}

// CreateAutoBackup snapshots the current state unconditionally with the
// auto tag. Most callers want MaybeAutoBackup instead.
func (m *Manager) CreateAutoBackup() (*model.BackupRecord, error) {
	return m.create(model.BackupAuto)
}

// MaybeAutoBackup creates an auto backup if enough wall-clock time has
// elapsed since the newest record. Returns the record when one was
// created, nil when the gate rejected the trigger.
func (m *Manager) MaybeAutoBackup(now time.Time) (*model.BackupRecord, error) {
	m.mu.Lock()
	due := true
	if n := len(m.records); n > 0 {
		due = now.Sub(m.records[n-1].Timestamp) >= m.autoInterval
	}
	m.mu.Unlock()

	if !due {
		return nil, nil
	}
	return m.create(model.BackupAuto)
}

// create snapshots state and appends a record. On a persistence failure
// the record stays in the in-memory history and the typed error reports
// the recoverable condition.
func (m *Manager) create(kind model.BackupKind) (*model.BackupRecord, error) {
	snap, err := m.snapshot()
	if err != nil {
		return nil, errors.Wrap(err, "snapshot state")
	}

	now := time.Now()

	m.mu.Lock()
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id

	record := model.BackupRecord{
		ID:        id,
		Kind:      kind,
		Timestamp: now,
		Data:      snap,
	}

	m.records = append(m.records, record)
	m.trimLocked()
	err = m.persistLocked()
	m.mu.Unlock()

	logging.Info("backup created",
		logging.KeyBackupID, id,
		logging.KeyKind, string(kind),
		logging.KeyStatus, persistStatus(err))

	return &record, err
}

func persistStatus(err error) string {
	if err != nil {
		return "memory-only"
	}
	return "persisted"
}

func (m *Manager) snapshot() (model.Snapshot, error) {
	entries, err := m.entries.List()
	if err != nil {
		return model.Snapshot{}, err
	}
	categories, err := m.categories.List()
	if err != nil {
		return model.Snapshot{}, err
	}
	settings, err := m.settings.Get()
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := model.Snapshot{
		Entries:       make([]model.TimeEntry, 0, len(entries)),
		Categories:    make([]model.Category, 0, len(categories)),
		Settings:      settings,
		SchemaVersion: model.SchemaVersion,
	}
	for _, e := range entries {
		snap.Entries = append(snap.Entries, *e)
	}
	for _, c := range categories {
		snap.Categories = append(snap.Categories, *c)
	}

	return snap, nil
}

// List returns the history newest first.
func (m *Manager) List() []model.BackupRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.BackupRecord, len(m.records))
	for i, r := range m.records {
		out[len(m.records)-1-i] = r
	}
	return out
}

// Len returns the number of records in the history.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Restore replaces current entries, categories and settings wholesale
// with the snapshot of the given record. Restoring an unknown id is a
// failure that leaves current state untouched; the caller is expected to
// have confirmed the destructive replace with the user.
func (m *Manager) Restore(id int64) error {
	m.mu.Lock()
	var record *model.BackupRecord
	for i := range m.records {
		if m.records[i].ID == id {
			record = &m.records[i]
			break
		}
	}
	m.mu.Unlock()

	if record == nil {
		return errors.ErrBackupNotFound
	}

	if err := m.entries.ReplaceAll(record.Data.Entries); err != nil {
		return errors.Wrap(err, "restore entries")
	}
	if err := m.categories.ReplaceAll(record.Data.Categories); err != nil {
		return errors.Wrap(err, "restore categories")
	}
	if record.Data.Settings != nil {
		if err := m.settings.Update(record.Data.Settings); err != nil {
			return errors.Wrap(err, "restore settings")
		}
	}

	logging.Info("state restored from backup", logging.KeyBackupID, id)
	return nil
}

// Cleanup removes records older than the cutoff, independent of the
// count-based eviction. Returns the number removed.
func (m *Manager) Cleanup(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	for _, r := range m.records {
		if r.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, r)
	}

	removed := len(m.records) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	m.records = kept
	return removed, m.persistLocked()
}

// trimLocked applies the count bound: append then truncate from the
// front, oldest evicted first, auto and manual treated identically.
func (m *Manager) trimLocked() {
	if m.maxBackups > 0 && len(m.records) > m.maxBackups {
		m.records = append([]model.BackupRecord(nil), m.records[len(m.records)-m.maxBackups:]...)
	}
}

// persistLocked writes the whole history as one JSON document. Quota
// failures come back as the typed recoverable condition; the in-memory
// history is already updated either way.
func (m *Manager) persistLocked() error {
	if err := storage.CheckDiskSpace(m.db.Path()); err != nil {
		return err
	}

	data, err := json.Marshal(m.records)
	if err != nil {
		return errors.NewSystemError("encode backup history", err)
	}

	if err := m.db.SetBytes(model.KeyBackups, data); err != nil {
		if errors.IsQuotaExceeded(err) {
			return errors.NewSystemError("backup history not persisted", errors.ErrStorageQuota)
		}
		return errors.NewSystemError("backup history not persisted", err)
	}

	return nil
}

func sortRecords(records []model.BackupRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
