package repository

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/query"
)

// EntryRepository defines entry persistence operations, scoped to an owner.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.Entry) error
	CreateBatch(ctx context.Context, entries []model.Entry) error
	Update(ctx context.Context, entry *model.Entry) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.Entry, error)
	List(ctx context.Context, ownerID uint, q query.Query) (query.Page[model.Entry], error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Create creates a new entry for entry.UserID.
func (r *entryRepository) Create(ctx context.Context, entry *model.Entry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

// CreateBatch inserts entries in chunks of 100.
func (r *entryRepository) CreateBatch(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).CreateInBatches(entries, 100).Error)
}

// Update writes the permitted fields of entry, then reloads it.
func (r *entryRepository) Update(ctx context.Context, entry *model.Entry) error {
	err := r.db.WithContext(ctx).Model(&model.Entry{}).
		Scopes(ownedBy(entry.UserID)).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"name":        entry.Name,
			"description": entry.Description,
			"date":        entry.Date,
			"value":       entry.Value,
			"category_id": entry.CategoryID,
		}).Error
	if err != nil {
		return translate(err)
	}
	reloaded, err := r.FindByID(ctx, entry.UserID, entry.ID)
	if err != nil {
		return err
	}
	*entry = *reloaded
	return nil
}

// FindByID finds an entry of ownerID.
func (r *entryRepository) FindByID(ctx context.Context, ownerID, id uint) (*model.Entry, error) {
	var entry model.Entry
	if err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// List runs q over the entries of ownerID.
func (r *entryRepository) List(ctx context.Context, ownerID uint, q query.Query) (query.Page[model.Entry], error) {
	return query.Execute[model.Entry](ctx, r.db.Scopes(ownedBy(ownerID)), EntrySchema, q)
}

// Delete removes an entry of ownerID.
func (r *entryRepository) Delete(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).Delete(&model.Entry{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
