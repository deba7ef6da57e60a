package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/query"
	"fintrack/internal/repository"
	"fintrack/internal/validate"
)

// maxEntryValue bounds the magnitude of a decimal(20,2) value.
var maxEntryValue = decimal.New(1, 18)

// EntryInput holds the permitted entry fields. Nil or unset fields are left unchanged.
type EntryInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Date        *model.Date      `json:"date"`
	Value       *decimal.Decimal `json:"value"`
	CategoryID  OptionalID       `json:"category_id"`
}

type entryFields struct {
	Name string `json:"name" validate:"required,max=255"`
}

// EntryService exposes entry operations scoped to an owner.
type EntryService interface {
	Create(ctx context.Context, ownerID uint, in EntryInput) (*model.Entry, error)
	List(ctx context.Context, ownerID uint, p query.Params, categoryID string) (query.Page[model.Entry], error)
	Get(ctx context.Context, ownerID, id uint) (*model.Entry, error)
	Update(ctx context.Context, ownerID, id uint, in EntryInput) (*model.Entry, error)
	Delete(ctx context.Context, ownerID, id uint) error
}

type entryService struct {
	repo       repository.EntryRepository
	categories repository.CategoryRepository
}

// NewEntryService builds an EntryService. categories is used to check that a
// referenced category belongs to the same owner.
func NewEntryService(repo repository.EntryRepository, categories repository.CategoryRepository) EntryService {
	return &entryService{repo: repo, categories: categories}
}

func (s *entryService) Create(ctx context.Context, ownerID uint, in EntryInput) (*model.Entry, error) {
	entry := &model.Entry{UserID: ownerID}
	applyEntry(entry, in)
	verr := errors.NewValidationError()
	if in.Value == nil {
		verr.Add("value", "can't be blank")
	}
	if err := s.check(ctx, entry, verr); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": ownerID, "entry_id": entry.ID}).Info("entry created")
	return entry, nil
}

// List resolves p for entries. categoryID, when not blank, must be a positive id.
func (s *entryService) List(ctx context.Context, ownerID uint, p query.Params, categoryID string) (query.Page[model.Entry], error) {
	q := query.Resolve(p, repository.EntrySchema)
	if raw := strings.TrimSpace(categoryID); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return query.Page[model.Entry]{}, errors.Invalid("category_id", "is not a valid id")
		}
		q = q.Where("category_id", uint(id))
	}
	return s.repo.List(ctx, ownerID, q)
}

func (s *entryService) Get(ctx context.Context, ownerID, id uint) (*model.Entry, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *entryService) Update(ctx context.Context, ownerID, id uint, in EntryInput) (*model.Entry, error) {
	entry, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	applyEntry(entry, in)
	if err := s.check(ctx, entry, errors.NewValidationError()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": ownerID, "entry_id": id}).Info("entry updated")
	return entry, nil
}

func (s *entryService) Delete(ctx context.Context, ownerID, id uint) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": ownerID, "entry_id": id}).Info("entry deleted")
	return nil
}

func (s *entryService) check(ctx context.Context, entry *model.Entry, verr *errors.ValidationError) error {
	verr.Merge(validate.Fields(entryFields{Name: entry.Name}))
	if entry.Date.IsZero() {
		verr.Add("date", "can't be blank")
	}
	if entry.Value.Abs().GreaterThanOrEqual(maxEntryValue) {
		verr.Add("value", "is out of range")
	}
	if entry.CategoryID != nil {
		_, err := s.categories.FindByID(ctx, entry.UserID, *entry.CategoryID)
		switch {
		case errors.Is(err, errors.ErrNotFound):
			verr.Add("category", "must exist")
		case err != nil:
			return err
		}
	}
	return verr.OrNil()
}

// applyEntry copies the set fields of in. Values are rounded to cents.
func applyEntry(entry *model.Entry, in EntryInput) {
	applyTrimmed(&entry.Name, in.Name)
	apply(&entry.Description, in.Description)
	if in.Date != nil {
		entry.Date = *in.Date
	}
	if in.Value != nil {
		entry.Value = in.Value.Round(2)
	}
	if in.CategoryID.Set {
		entry.CategoryID = in.CategoryID.ID
	}
}
