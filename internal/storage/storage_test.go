package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
)

// Helper to create an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.NotNil(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("on_disk", func(t *testing.T) {
		db, err := Open(Options{Path: t.TempDir()})
		require.NoError(t, err)
		assert.NotEmpty(t, db.Path())
		assert.NoError(t, db.Close())
	})
}

func TestCheckIntegrity(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.CheckIntegrity())
}

func TestBytesRoundtrip(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.SetBytes("blob", []byte(`{"x":1}`)))
	data, err := db.GetBytes("blob")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"x":1}`), data)

	_, err = db.GetBytes("missing")
	assert.True(t, IsErrKeyNotFound(err))
}

func TestEntryRepoCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepo(db)

	entry := model.NewTimeEntry("", "2026-03-02", "09:00", "12:00", 40)
	require.NoError(t, repo.Create(entry))
	require.NotEmpty(t, entry.ID)
	require.NotEmpty(t, entry.Key)

	t.Run("get_by_key", func(t *testing.T) {
		got, err := repo.Get(entry.Key)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
		assert.InDelta(t, 120.0, got.Earned.Float(), 1e-9)
	})

	t.Run("get_by_id", func(t *testing.T) {
		got, err := repo.GetByID(entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.Key, got.Key)
	})

	t.Run("missing_entry", func(t *testing.T) {
		_, err := repo.GetByID("nope")
		assert.ErrorIs(t, err, errors.ErrEntryNotFound)
	})

	t.Run("update", func(t *testing.T) {
		entry.Description = "reviewed"
		require.NoError(t, repo.Update(entry))
		got, err := repo.Get(entry.Key)
		require.NoError(t, err)
		assert.Equal(t, "reviewed", got.Description)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(entry.Key))
		_, err := repo.Get(entry.Key)
		assert.ErrorIs(t, err, errors.ErrEntryNotFound)
	})
}

func TestEntryRepoListSorted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepo(db)

	require.NoError(t, repo.Create(model.NewTimeEntry("", "2026-03-03", "08:00", "10:00", 1)))
	require.NoError(t, repo.Create(model.NewTimeEntry("", "2026-03-02", "14:00", "16:00", 1)))
	require.NoError(t, repo.Create(model.NewTimeEntry("", "2026-03-02", "09:00", "11:00", 1)))

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-03-02", entries[0].Date)
	assert.Equal(t, "09:00", entries[0].Start)
	assert.Equal(t, "2026-03-03", entries[2].Date)
}

func TestEntryRepoImport(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepo(db)

	batch := []*model.TimeEntry{
		model.NewTimeEntry("", "2026-03-02", "09:00", "11:00", 10),
		nil,
		{Start: "09:00", End: "10:00"}, // no date, skipped
		model.NewTimeEntry("", "2026-03-03", "09:00", "11:00", 10),
	}

	imported, err := repo.Import(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEntryRepoReplaceAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryRepo(db)

	require.NoError(t, repo.Create(model.NewTimeEntry("", "2026-01-01", "09:00", "11:00", 10)))
	require.NoError(t, repo.Create(model.NewTimeEntry("", "2026-01-02", "09:00", "11:00", 10)))

	replacement := []model.TimeEntry{
		*model.NewTimeEntry("snap-1", "2026-02-01", "10:00", "12:00", 20),
	}
	require.NoError(t, repo.ReplaceAll(replacement))

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snap-1", entries[0].ID)
	assert.Equal(t, "2026-02-01", entries[0].Date)
}

func TestSettingsRepoDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	settings, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 8.0, settings.DailyHours.Float())
	assert.Equal(t, 0.0, settings.DailyGoal.Float())

	settings.DailyGoal = model.Number(400)
	require.NoError(t, repo.Update(settings))

	again, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, 400.0, again.DailyGoal.Float())
}

func TestCategoryRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepo(db)

	cat := &model.Category{Name: "consulting", Color: "#10B981"}
	require.NoError(t, repo.Create(cat))
	require.NotEmpty(t, cat.ID)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "consulting", list[0].Name)

	require.NoError(t, repo.ReplaceAll(nil))
	list, err = repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}
