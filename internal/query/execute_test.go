package query

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"fintrack/internal/db"
)

type item struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
	Value       int
	OwnerID     uint
	CategoryID  *uint
}

var itemSchema = Schema{
	Sortable:   []string{"id", "name", "value"},
	Searchable: []string{"name", "description"},
	Filterable: []string{"category_id", "owner_id"},
}

// ExecuteTestSuite runs the resolver against an in-memory database.
type ExecuteTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestExecuteTestSuite(t *testing.T) {
	suite.Run(t, new(ExecuteTestSuite))
}

func (s *ExecuteTestSuite) SetupTest() {
	gormDB, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(s.T(), err)
	require.NoError(s.T(), gormDB.AutoMigrate(&item{}))
	s.db = gormDB

	cat1, cat2 := uint(1), uint(2)
	items := make([]item, 0, 60)
	for i := 1; i <= 53; i++ {
		it := item{
			Name:        fmt.Sprintf("item %02d", i),
			Description: "plain",
			Value:       i % 5,
			OwnerID:     1,
		}
		if i%2 == 0 {
			it.CategoryID = &cat1
		} else {
			it.CategoryID = &cat2
		}
		items = append(items, it)
	}
	items = append(items,
		item{Name: "Rent March", Description: "flat", Value: -950, OwnerID: 1},
		item{Name: "Groceries", Description: "100% organic", Value: -40, OwnerID: 1},
		item{Name: "Rent April", Description: "other owner", Value: -950, OwnerID: 2},
	)
	require.NoError(s.T(), s.db.Create(&items).Error)
}

func (s *ExecuteTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func (s *ExecuteTestSuite) owned() *gorm.DB {
	return s.db.Where("owner_id = ?", 1)
}

func (s *ExecuteTestSuite) run(p Params, filters ...Filter) Page[item] {
	q := Resolve(p, itemSchema)
	for _, f := range filters {
		q = q.Where(f.Column, f.Value)
	}
	page, err := Execute[item](context.Background(), s.owned(), itemSchema, q)
	require.NoError(s.T(), err)
	return page
}

func (s *ExecuteTestSuite) TestPagesAreFullExceptTheLast() {
	first := s.run(Params{PerPage: "10"})
	total := first.Total
	assert.Equal(s.T(), int64(55), total)
	assert.Equal(s.T(), 6, first.LastPage)

	seen := 0
	for page := 1; page <= first.LastPage; page++ {
		p := s.run(Params{PerPage: "10", Page: fmt.Sprint(page)})
		assert.LessOrEqual(s.T(), len(p.Result), 10)
		if page < p.LastPage {
			assert.Len(s.T(), p.Result, 10)
		}
		seen += len(p.Result)
	}
	assert.Equal(s.T(), int(total), seen)

	beyond := s.run(Params{PerPage: "10", Page: "99"})
	assert.Empty(s.T(), beyond.Result)
	assert.NotNil(s.T(), beyond.Result)
}

func (s *ExecuteTestSuite) TestDefaultsWhenParamsAreInvalid() {
	p := s.run(Params{Page: "0", PerPage: "0", Direction: "up", OrderBy: "evil()"})

	assert.Equal(s.T(), 1, p.Page)
	assert.Equal(s.T(), DefaultPerPage, p.PerPage)
	assert.Equal(s.T(), Asc, p.Direction)
	assert.Equal(s.T(), "id", p.OrderBy)
	assert.Len(s.T(), p.Result, DefaultPerPage)
	assert.Equal(s.T(), 3, p.LastPage)
}

func (s *ExecuteTestSuite) TestDescIsReverseOfAsc() {
	asc := s.run(Params{OrderBy: "value", Direction: "asc", PerPage: "100"})
	desc := s.run(Params{OrderBy: "value", Direction: "desc", PerPage: "100"})

	require.Len(s.T(), asc.Result, 55)
	reversed := slices.Clone(desc.Result)
	slices.Reverse(reversed)
	assert.Equal(s.T(), asc.Result, reversed)

	assert.Equal(s.T(), -950, asc.Result[0].Value)
	assert.Equal(s.T(), -950, desc.Result[len(desc.Result)-1].Value)
}

func (s *ExecuteTestSuite) TestSearchSingleMatch() {
	p := s.run(Params{Search: "rent"})

	require.Len(s.T(), p.Result, 1)
	assert.Equal(s.T(), "Rent March", p.Result[0].Name)
	assert.Equal(s.T(), int64(1), p.Total)
	require.NotNil(s.T(), p.Search)
	assert.Equal(s.T(), "rent", *p.Search)
}

func (s *ExecuteTestSuite) TestSearchAnyWordAnyColumn() {
	p := s.run(Params{Search: "flat organic"})

	assert.Equal(s.T(), int64(2), p.Total)
}

func (s *ExecuteTestSuite) TestSearchNoMatch() {
	p := s.run(Params{Search: "zzzunknown"})

	assert.Equal(s.T(), int64(0), p.Total)
	assert.Equal(s.T(), 0, p.LastPage)
	assert.NotNil(s.T(), p.Result)
	assert.Empty(s.T(), p.Result)
}

func (s *ExecuteTestSuite) TestSearchEscapesWildcards() {
	p := s.run(Params{Search: "%"})
	require.Len(s.T(), p.Result, 1)
	assert.Equal(s.T(), "Groceries", p.Result[0].Name)

	p = s.run(Params{Search: "_"})
	assert.Equal(s.T(), int64(0), p.Total)
}

func (s *ExecuteTestSuite) TestSearchIsAbsentWhenBlank() {
	p := s.run(Params{Search: "   "})

	assert.Nil(s.T(), p.Search)
	assert.Equal(s.T(), int64(55), p.Total)
}

func (s *ExecuteTestSuite) TestEqualityFilter() {
	p := s.run(Params{PerPage: "100"}, Filter{Column: "category_id", Value: uint(1)})

	assert.Equal(s.T(), int64(26), p.Total)
	for _, it := range p.Result {
		require.NotNil(s.T(), it.CategoryID)
		assert.Equal(s.T(), uint(1), *it.CategoryID)
	}
}

func (s *ExecuteTestSuite) TestFilterAndSearchCompose() {
	p := s.run(Params{Search: "item 1"}, Filter{Column: "category_id", Value: uint(2)})

	for _, it := range p.Result {
		assert.Equal(s.T(), uint(2), *it.CategoryID)
	}
	assert.NotZero(s.T(), p.Total)
}

func (s *ExecuteTestSuite) TestScopeIsKeptWithSearch() {
	// "Rent April" belongs to another owner and must stay invisible.
	p := s.run(Params{Search: "april"})

	assert.Equal(s.T(), int64(0), p.Total)
}

func (s *ExecuteTestSuite) TestUnknownFilterIsRejected() {
	q := Resolve(Params{}, itemSchema).Where("description", "plain")

	_, err := Execute[item](context.Background(), s.owned(), itemSchema, q)
	assert.Error(s.T(), err)
}
