package backup

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/logging"
	"github.com/okulov/timeledger/internal/model"
)

// Export writes the full history as a single JSON document with a
// schema version and export date envelope.
func (m *Manager) Export(w io.Writer) error {
	m.mu.Lock()
	records := append([]model.BackupRecord(nil), m.records...)
	m.mu.Unlock()

	doc := model.BackupExport{
		SchemaVersion: model.SchemaVersion,
		ExportDate:    time.Now(),
		Backups:       records,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.NewSystemError("export backups", err)
	}
	return nil
}

// Import merges an exported document into the history. Records whose id
// already exists are skipped, the merged history is re-sorted by
// timestamp and the count bound re-applied. A document that fails to
// decode or carries no backups array is rejected without touching the
// history.
func (m *Manager) Import(r io.Reader) (int, error) {
	var doc model.BackupExport
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, errors.Wrap(errors.ErrImportFormat, "not a backup export")
	}
	if doc.Backups == nil {
		return 0, errors.Wrap(errors.ErrImportFormat, "no backups array")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[int64]struct{}, len(m.records))
	for _, r := range m.records {
		seen[r.ID] = struct{}{}
	}

	added := 0
	for _, rec := range doc.Backups {
		if rec.ID == 0 || rec.Timestamp.IsZero() {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		m.records = append(m.records, rec)
		if rec.ID > m.lastID {
			m.lastID = rec.ID
		}
		added++
	}

	if added == 0 {
		return 0, nil
	}

	sortRecords(m.records)
	m.trimLocked()

	err := m.persistLocked()
	logging.Info("backups imported",
		logging.KeyCount, added,
		logging.KeyStatus, persistStatus(err))
	return added, err
}
