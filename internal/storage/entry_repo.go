package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

// EntryRepo provides operations for TimeEntry records. It is the sole owner
// of entry lifecycle; the statistics engine only ever reads from it.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo creates a new entry repository.
func NewEntryRepo(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create creates a new entry with a generated key.
func (r *EntryRepo) Create(entry *model.TimeEntry) error {
	// Generate UUID v7 for time-sortable keys
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = id.String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.UpdatedAt = time.Now()
	entry.Key = model.GenerateEntryKey(id.String())
	return r.db.Set(entry)
}

// Get retrieves an entry by key.
func (r *EntryRepo) Get(key string) (*model.TimeEntry, error) {
	entry := &model.TimeEntry{}
	if err := r.db.Get(key, entry); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// GetByID retrieves an entry by its public id.
func (r *EntryRepo) GetByID(id string) (*model.TimeEntry, error) {
	matches, err := GetFilteredByPrefix(r.db, model.PrefixEntry+":", func() *model.TimeEntry {
		return &model.TimeEntry{}
	}, func(e *model.TimeEntry) bool {
		return e.ID == id
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.ErrEntryNotFound
	}
	return matches[0], nil
}

// Update updates an existing entry.
func (r *EntryRepo) Update(entry *model.TimeEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.Set(entry)
}

// Delete removes an entry by key.
func (r *EntryRepo) Delete(key string) error {
	return r.db.Delete(key)
}

// List retrieves all entries sorted by date, then start time.
func (r *EntryRepo) List() ([]*model.TimeEntry, error) {
	entries, err := GetAllByPrefix(r.db, model.PrefixEntry+":", func() *model.TimeEntry {
		return &model.TimeEntry{}
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Start < entries[j].Start
	})

	return entries, nil
}

// ListByWindow retrieves entries whose calendar date falls in the window.
func (r *EntryRepo) ListByWindow(w timeutil.Window) ([]*model.TimeEntry, error) {
	return GetFilteredByPrefix(r.db, model.PrefixEntry+":", func() *model.TimeEntry {
		return &model.TimeEntry{}
	}, func(e *model.TimeEntry) bool {
		day, ok := e.Day()
		if !ok {
			return false
		}
		return w.Contains(day)
	}, 0)
}

// Import stores a batch of entries, generating keys for records that lack
// them. Malformed records are skipped, not fatal.
func (r *EntryRepo) Import(entries []*model.TimeEntry) (int, error) {
	imported := 0
	for _, entry := range entries {
		if entry == nil || entry.Date == "" {
			continue
		}
		if err := r.Create(entry); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

// ReplaceAll atomically replaces the whole entry set. Used by restore; a
// restore is wholesale, never a merge.
func (r *EntryRepo) ReplaceAll(entries []model.TimeEntry) error {
	existing, err := r.List()
	if err != nil {
		return err
	}

	for _, e := range existing {
		if err := r.db.Delete(e.Key); err != nil {
			return err
		}
	}

	for i := range entries {
		entry := entries[i]
		if err := r.Create(&entry); err != nil {
			return err
		}
	}

	return nil
}

// Count returns the number of stored entries.
func (r *EntryRepo) Count() (int, error) {
	entries, err := r.List()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
