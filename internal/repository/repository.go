package repository

import (
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/query"
)

// List schemas. Column names here are the only ones a request can sort, search or filter on.
var (
	UserSchema = query.Schema{
		Sortable:   []string{"id", "first_name", "last_name", "username", "email", "created_at", "updated_at"},
		Searchable: []string{"first_name", "last_name", "email", "username"},
	}
	CategorySchema = query.Schema{
		Sortable:   []string{"id", "name", "created_at", "updated_at"},
		Searchable: []string{"name"},
	}
	EntrySchema = query.Schema{
		Sortable:   []string{"id", "name", "description", "date", "value", "category_id", "created_at", "updated_at"},
		Searchable: []string{"name", "description"},
		Filterable: []string{"category_id"},
	}
)

// translate maps gorm errors onto domain errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.ErrDuplicate
	default:
		return err
	}
}

// ownedBy scopes a query to rows of ownerID.
func ownedBy(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

// isUniqueViolation catches unique index failures from drivers whose errors
// gorm does not translate.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
