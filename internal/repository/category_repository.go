package repository

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/query"
)

// CategoryRepository defines category persistence operations.
// Every method is scoped to an owner; rows of other owners behave as missing.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, ownerID, id uint) (*model.Category, error)
	FindByName(ctx context.Context, ownerID uint, name string) (*model.Category, error)
	NameTaken(ctx context.Context, ownerID uint, name string, exceptID uint) (bool, error)
	List(ctx context.Context, ownerID uint, q query.Query) (query.Page[model.Category], error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category for category.UserID.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

// Update writes the permitted fields of category, then reloads it.
func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Scopes(ownedBy(category.UserID)).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":  category.Name,
			"image": category.Image,
		}).Error
	if err != nil {
		return translate(err)
	}
	reloaded, err := r.FindByID(ctx, category.UserID, category.ID)
	if err != nil {
		return err
	}
	*category = *reloaded
	return nil
}

// FindByID finds a category of ownerID.
func (r *categoryRepository) FindByID(ctx context.Context, ownerID, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// FindByName finds a category of ownerID by exact name.
func (r *categoryRepository) FindByName(ctx context.Context, ownerID uint, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// NameTaken reports whether ownerID has another category called name.
func (r *categoryRepository) NameTaken(ctx context.Context, ownerID uint, name string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Scopes(ownedBy(ownerID)).
		Where("name = ?", name).
		Where("id <> ?", exceptID).
		Count(&count).Error
	return count > 0, err
}

// List runs q over the categories of ownerID.
func (r *categoryRepository) List(ctx context.Context, ownerID uint, q query.Query) (query.Page[model.Category], error) {
	return query.Execute[model.Category](ctx, r.db.Scopes(ownedBy(ownerID)), CategorySchema, q)
}

// Delete removes the category and every entry filed under it.
func (r *categoryRepository) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(ownedBy(ownerID)).Select("id").Where("id = ?", id).First(&model.Category{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("category_id = ?", id).Delete(&model.Entry{}).Error; err != nil {
			return err
		}
		res := tx.Scopes(ownedBy(ownerID)).Where("id = ?", id).Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrNotFound
		}
		return nil
	})
}
