// Package seed fills a database with the root user, its default categories
// and optionally random entries.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/repository"
)

const (
	RootUsername  = "user"
	RootEmail     = "root@user.com"
	RootFirstName = "root"
	RootLastName  = "user"

	// EntryWindow is how far back random entries are dated.
	EntryWindow = 180 * 24 * time.Hour
	// MaxEntryValue bounds the magnitude of random entry values.
	MaxEntryValue = 1000
)

// DefaultCategories are created for the root user.
var DefaultCategories = []string{"Other", "Groceries", "Transport", "Health", "Leisure", "Habitation", "Communication"}

// Options control a seed run.
type Options struct {
	RootPassword string
	Entries      int
	Now          time.Time
	Rand         *rand.Rand
}

// Result summarizes a seed run.
type Result struct {
	User              *model.User
	CategoriesCreated int
	EntriesCreated    int
}

// Seeder creates seed data through the repositories.
type Seeder struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	entries    repository.EntryRepository
}

// New creates a Seeder.
func New(users repository.UserRepository, categories repository.CategoryRepository, entries repository.EntryRepository) *Seeder {
	return &Seeder{users: users, categories: categories, entries: entries}
}

// Run seeds the root user and categories, reusing rows that already exist,
// then adds opts.Entries random entries.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(opts.Now.UnixNano()), 0))
	}

	user, err := s.rootUser(ctx, opts.RootPassword)
	if err != nil {
		return nil, err
	}
	result := &Result{User: user}

	categories := make([]*model.Category, 0, len(DefaultCategories))
	for _, name := range DefaultCategories {
		category, created, err := s.category(ctx, user.ID, name)
		if err != nil {
			return nil, err
		}
		if created {
			result.CategoriesCreated++
		}
		categories = append(categories, category)
	}

	if opts.Entries > 0 {
		entries := randomEntries(user.ID, categories, opts)
		if err := s.entries.CreateBatch(ctx, entries); err != nil {
			return nil, fmt.Errorf("create entries: %w", err)
		}
		result.EntriesCreated = len(entries)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"categories": result.CategoriesCreated,
		"entries":    result.EntriesCreated,
	}).Info("seed completed")
	return result, nil
}

func (s *Seeder) rootUser(ctx context.Context, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, RootEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, fmt.Errorf("find root user: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("root user password is empty")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user = &model.User{
		FirstName:      RootFirstName,
		LastName:       RootLastName,
		Username:       RootUsername,
		Email:          RootEmail,
		PasswordDigest: string(digest),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create root user: %w", err)
	}
	return user, nil
}

func (s *Seeder) category(ctx context.Context, ownerID uint, name string) (*model.Category, bool, error) {
	category, err := s.categories.FindByName(ctx, ownerID, name)
	if err == nil {
		return category, false, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return nil, false, fmt.Errorf("find category %s: %w", name, err)
	}
	category = &model.Category{UserID: ownerID, Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, false, fmt.Errorf("create category %s: %w", name, err)
	}
	return category, true, nil
}

func randomEntries(ownerID uint, categories []*model.Category, opts Options) []model.Entry {
	days := int(EntryWindow / (24 * time.Hour))
	entries := make([]model.Entry, 0, opts.Entries)
	for i := 0; i < opts.Entries; i++ {
		category := categories[opts.Rand.IntN(len(categories))]
		cents := opts.Rand.Int64N(2*MaxEntryValue*100+1) - MaxEntryValue*100
		categoryID := category.ID
		entries = append(entries, model.Entry{
			Name:        fmt.Sprintf("%s #%d", category.Name, i+1),
			Description: "Generated entry",
			Date:        model.NewDate(opts.Now.AddDate(0, 0, -opts.Rand.IntN(days+1))),
			Value:       decimal.New(cents, -2),
			UserID:      ownerID,
			CategoryID:  &categoryID,
		})
	}
	return entries
}
