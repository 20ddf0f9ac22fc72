package storage

import (
	"sort"

	"github.com/google/uuid"

	"github.com/okulov/timeledger/internal/model"
)

// SettingsRepo provides operations for the Settings singleton.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves the settings, creating defaults if none exist.
func (r *SettingsRepo) Get() (*model.Settings, error) {
	settings := &model.Settings{}
	err := r.db.Get(model.KeySettings, settings)
	if err == nil {
		return settings, nil
	}

	if !IsErrKeyNotFound(err) {
		return nil, err
	}

	settings = model.DefaultSettings()
	if err := r.db.Set(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Update updates the settings.
func (r *SettingsRepo) Update(settings *model.Settings) error {
	settings.Key = model.KeySettings
	return r.db.Set(settings)
}

// CategoryRepo provides operations for Category records.
type CategoryRepo struct {
	db *DB
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(db *DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// Create creates a new category with a generated key.
func (r *CategoryRepo) Create(category *model.Category) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	if category.ID == "" {
		category.ID = id.String()
	}
	category.Key = model.GenerateCategoryKey(id.String())
	return r.db.Set(category)
}

// Update updates an existing category.
func (r *CategoryRepo) Update(category *model.Category) error {
	return r.db.Set(category)
}

// Delete removes a category by key.
func (r *CategoryRepo) Delete(key string) error {
	return r.db.Delete(key)
}

// List retrieves all categories sorted by name.
func (r *CategoryRepo) List() ([]*model.Category, error) {
	categories, err := GetAllByPrefix(r.db, model.PrefixCategory+":", func() *model.Category {
		return &model.Category{}
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}

// ReplaceAll atomically replaces the whole category set. Used by restore.
func (r *CategoryRepo) ReplaceAll(categories []model.Category) error {
	existing, err := r.List()
	if err != nil {
		return err
	}

	for _, c := range existing {
		if err := r.db.Delete(c.Key); err != nil {
			return err
		}
	}

	for i := range categories {
		category := categories[i]
		if err := r.Create(&category); err != nil {
			return err
		}
	}

	return nil
}
