package repository

import (
	"context"

	"gorm.io/gorm"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/query"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	List(ctx context.Context, q query.Query) (query.Page[model.User], error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Model(&model.User{ID: user.ID}).Updates(map[string]any{
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"username":        user.Username,
		"email":           user.Email,
		"password_digest": user.PasswordDigest,
		"avatar":          user.Avatar,
	}).Error
	if err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).First(user, user.ID).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	return r.taken(ctx, "email = ?", email, exceptID)
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	return r.taken(ctx, "username = ?", username, exceptID)
}

func (r *userRepository) taken(ctx context.Context, cond, value string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where(cond, value).
		Where("id <> ?", exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List(ctx context.Context, q query.Query) (query.Page[model.User], error) {
	return query.Execute[model.User](ctx, r.db, UserSchema, q)
}

// Delete removes the user together with its entries and categories.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Scopes(ownedBy(id)).Delete(&model.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Scopes(ownedBy(id)).Delete(&model.Category{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.ErrNotFound
		}
		return nil
	})
}
