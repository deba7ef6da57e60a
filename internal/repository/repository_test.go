package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"fintrack/internal/db"
	"fintrack/internal/errors"
	"fintrack/internal/model"
	"fintrack/internal/query"
)

// RepositoryTestSuite runs the repositories against an in-memory database.
type RepositoryTestSuite struct {
	suite.Suite
	ctx        context.Context
	db         *gorm.DB
	users      UserRepository
	categories CategoryRepository
	entries    EntryRepository
	alice, bob *model.User
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupTest() {
	gormDB, err := db.Open(db.DriverSQLite, ":memory:")
	s.Require().NoError(err)
	s.Require().NoError(db.Migrate(gormDB))

	s.ctx = context.Background()
	s.db = gormDB
	s.users = NewUserRepository(gormDB)
	s.categories = NewCategoryRepository(gormDB)
	s.entries = NewEntryRepository(gormDB)

	s.alice = &model.User{Username: "alice", Email: "alice@example.com", PasswordDigest: "x"}
	s.bob = &model.User{Username: "bob", Email: "bob@example.com", PasswordDigest: "x"}
	s.Require().NoError(s.users.Create(s.ctx, s.alice))
	s.Require().NoError(s.users.Create(s.ctx, s.bob))
}

func (s *RepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *RepositoryTestSuite) category(owner *model.User, name string) *model.Category {
	c := &model.Category{UserID: owner.ID, Name: name}
	s.Require().NoError(s.categories.Create(s.ctx, c))
	return c
}

func (s *RepositoryTestSuite) entry(owner *model.User, name string, category *model.Category) *model.Entry {
	date, err := model.ParseDate("2024-01-01")
	s.Require().NoError(err)
	e := &model.Entry{UserID: owner.ID, Name: name, Date: date, Value: decimal.NewFromInt(-950)}
	if category != nil {
		e.CategoryID = &category.ID
	}
	s.Require().NoError(s.entries.Create(s.ctx, e))
	return e
}

func (s *RepositoryTestSuite) TestUserLookups() {
	found, err := s.users.FindByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(s.alice.ID, found.ID)

	_, err = s.users.FindByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, errors.ErrNotFound)

	taken, err := s.users.EmailTaken(s.ctx, "alice@example.com", s.bob.ID)
	s.Require().NoError(err)
	s.True(taken)
	taken, err = s.users.EmailTaken(s.ctx, "alice@example.com", s.alice.ID)
	s.Require().NoError(err)
	s.False(taken)
	taken, err = s.users.UsernameTaken(s.ctx, "bob", 0)
	s.Require().NoError(err)
	s.True(taken)
}

func (s *RepositoryTestSuite) TestUserDuplicateEmail() {
	err := s.users.Create(s.ctx, &model.User{Username: "alice2", Email: "alice@example.com", PasswordDigest: "x"})
	s.ErrorIs(err, errors.ErrDuplicate)
}

func (s *RepositoryTestSuite) TestUserUpdate() {
	s.alice.FirstName = "Alice"
	s.Require().NoError(s.users.Update(s.ctx, s.alice))

	found, err := s.users.FindByID(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Equal("Alice", found.FirstName)
	s.Equal("alice", found.Username)
}

func (s *RepositoryTestSuite) TestUserList() {
	page, err := s.users.List(s.ctx, query.Resolve(query.Params{Search: "BOB"}, UserSchema))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
	s.Equal("bob", page.Result[0].Username)
}

func (s *RepositoryTestSuite) TestUserDeleteCascades() {
	groceries := s.category(s.alice, "Groceries")
	loose := s.entry(s.alice, "Coffee", nil)
	filed := s.entry(s.alice, "Apples", groceries)
	kept := s.entry(s.bob, "Rent", nil)

	s.Require().NoError(s.users.Delete(s.ctx, s.alice.ID))

	_, err := s.users.FindByID(s.ctx, s.alice.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	_, err = s.categories.FindByID(s.ctx, s.alice.ID, groceries.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	_, err = s.entries.FindByID(s.ctx, s.alice.ID, loose.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	_, err = s.entries.FindByID(s.ctx, s.alice.ID, filed.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	_, err = s.entries.FindByID(s.ctx, s.bob.ID, kept.ID)
	s.NoError(err)

	s.ErrorIs(s.users.Delete(s.ctx, s.alice.ID), errors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCategoryOwnership() {
	mine := s.category(s.alice, "Health")

	_, err := s.categories.FindByID(s.ctx, s.bob.ID, mine.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	s.ErrorIs(s.categories.Delete(s.ctx, s.bob.ID, mine.ID), errors.ErrNotFound)

	page, err := s.categories.List(s.ctx, s.bob.ID, query.Resolve(query.Params{}, CategorySchema))
	s.Require().NoError(err)
	s.Equal(int64(0), page.Total)
	s.Empty(page.Result)

	_, err = s.categories.FindByID(s.ctx, s.alice.ID, mine.ID)
	s.NoError(err)
}

func (s *RepositoryTestSuite) TestCategoryNameUniquePerOwner() {
	s.category(s.alice, "Leisure")
	s.category(s.bob, "Leisure")

	err := s.categories.Create(s.ctx, &model.Category{UserID: s.alice.ID, Name: "Leisure"})
	s.ErrorIs(err, errors.ErrDuplicate)

	taken, err := s.categories.NameTaken(s.ctx, s.alice.ID, "Leisure", 0)
	s.Require().NoError(err)
	s.True(taken)
	found, err := s.categories.FindByName(s.ctx, s.bob.ID, "Leisure")
	s.Require().NoError(err)
	s.Equal(s.bob.ID, found.UserID)
}

func (s *RepositoryTestSuite) TestCategoryUpdate() {
	c := s.category(s.alice, "Transprot")
	c.Name = "Transport"
	s.Require().NoError(s.categories.Update(s.ctx, c))
	s.Equal("Transport", c.Name)

	foreign := *c
	foreign.UserID = s.bob.ID
	s.ErrorIs(s.categories.Update(s.ctx, &foreign), errors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCategoryDeleteCascadesToEntries() {
	groceries := s.category(s.alice, "Groceries")
	filed := s.entry(s.alice, "Apples", groceries)
	loose := s.entry(s.alice, "Coffee", nil)

	s.Require().NoError(s.categories.Delete(s.ctx, s.alice.ID, groceries.ID))

	_, err := s.entries.FindByID(s.ctx, s.alice.ID, filed.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	_, err = s.entries.FindByID(s.ctx, s.alice.ID, loose.ID)
	s.NoError(err)
}

func (s *RepositoryTestSuite) TestEntryRoundTrip() {
	created := s.entry(s.alice, "Rent", nil)
	s.NotZero(created.ID)

	found, err := s.entries.FindByID(s.ctx, s.alice.ID, created.ID)
	s.Require().NoError(err)
	s.Equal("Rent", found.Name)
	s.Equal("2024-01-01", found.Date.String())
	s.True(found.Value.Equal(decimal.NewFromInt(-950)))

	found.Value = decimal.NewFromInt(-900)
	s.Require().NoError(s.entries.Update(s.ctx, found))

	again, err := s.entries.FindByID(s.ctx, s.alice.ID, created.ID)
	s.Require().NoError(err)
	s.True(again.Value.Equal(decimal.NewFromInt(-900)))
	s.Equal("Rent", again.Name)
	s.Equal("2024-01-01", again.Date.String())
}

func (s *RepositoryTestSuite) TestEntryOwnershipAndFilter() {
	health := s.category(s.alice, "Health")
	s.entry(s.alice, "Pharmacy", health)
	s.entry(s.alice, "Cinema", nil)
	theirs := s.entry(s.bob, "Pharmacy", nil)

	_, err := s.entries.FindByID(s.ctx, s.alice.ID, theirs.ID)
	s.ErrorIs(err, errors.ErrNotFound)
	s.ErrorIs(s.entries.Delete(s.ctx, s.alice.ID, theirs.ID), errors.ErrNotFound)

	q := query.Resolve(query.Params{Search: "pharm"}, EntrySchema)
	page, err := s.entries.List(s.ctx, s.alice.ID, q)
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)

	page, err = s.entries.List(s.ctx, s.alice.ID, query.Resolve(query.Params{}, EntrySchema).Where("category_id", health.ID))
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
	s.Equal("Pharmacy", page.Result[0].Name)
}

func (s *RepositoryTestSuite) TestEntryCreateBatch() {
	date, err := model.ParseDate("2024-02-01")
	s.Require().NoError(err)
	batch := make([]model.Entry, 0, 150)
	for i := 0; i < 150; i++ {
		batch = append(batch, model.Entry{UserID: s.bob.ID, Name: "seed", Date: date, Value: decimal.NewFromInt(int64(i))})
	}
	s.Require().NoError(s.entries.CreateBatch(s.ctx, batch))
	s.Require().NoError(s.entries.CreateBatch(s.ctx, nil))

	page, err := s.entries.List(s.ctx, s.bob.ID, query.Resolve(query.Params{}, EntrySchema))
	s.Require().NoError(err)
	s.Equal(int64(150), page.Total)
	s.Equal(6, page.LastPage)
}
