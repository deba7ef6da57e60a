package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"fintrack/internal/model"
	"fintrack/internal/query"
	"fintrack/internal/repository"
	"fintrack/internal/validate"
)

// CategoryInput holds the permitted category fields. Nil fields are left unchanged.
type CategoryInput struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type categoryFields struct {
	Name  string `json:"name" validate:"required,max=255"`
	Image string `json:"image" validate:"max=1024"`
}

// CategoryService exposes category operations scoped to an owner.
type CategoryService interface {
	Create(ctx context.Context, ownerID uint, in CategoryInput) (*model.Category, error)
	List(ctx context.Context, ownerID uint, p query.Params) (query.Page[model.Category], error)
	Get(ctx context.Context, ownerID, id uint) (*model.Category, error)
	Update(ctx context.Context, ownerID, id uint, in CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, ownerID uint, in CategoryInput) (*model.Category, error) {
	category := &model.Category{UserID: ownerID}
	applyCategory(category, in)
	if err := s.check(ctx, category); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": ownerID, "category_id": category.ID}).Info("category created")
	return category, nil
}

func (s *categoryService) List(ctx context.Context, ownerID uint, p query.Params) (query.Page[model.Category], error) {
	return s.repo.List(ctx, ownerID, query.Resolve(p, repository.CategorySchema))
}

func (s *categoryService) Get(ctx context.Context, ownerID, id uint) (*model.Category, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *categoryService) Update(ctx context.Context, ownerID, id uint, in CategoryInput) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	applyCategory(category, in)
	if err := s.check(ctx, category); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": ownerID, "category_id": id}).Info("category updated")
	return category, nil
}

// Delete removes the category together with its entries.
func (s *categoryService) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": ownerID, "category_id": id}).Info("category deleted")
	return nil
}

func (s *categoryService) check(ctx context.Context, category *model.Category) error {
	verr := validate.Fields(categoryFields{Name: category.Name, Image: category.Image})
	if category.Name != "" {
		taken, err := s.repo.NameTaken(ctx, category.UserID, category.Name, category.ID)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if taken {
			verr.Add("name", "has already been taken")
		}
	}
	return verr.OrNil()
}

func applyCategory(category *model.Category, in CategoryInput) {
	applyTrimmed(&category.Name, in.Name)
	apply(&category.Image, in.Image)
}

