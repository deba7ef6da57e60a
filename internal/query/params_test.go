package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSchema = Schema{
	Sortable:   []string{"id", "name", "date", "value", "created_at"},
	Searchable: []string{"name", "description"},
	Filterable: []string{"category_id"},
}

func TestResolve_Defaults(t *testing.T) {
	q := Resolve(Params{}, testSchema)

	assert.Equal(t, Asc, q.Direction)
	assert.Equal(t, "id", q.OrderBy)
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultPerPage, q.PerPage)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Filters)
}

func TestResolve_Direction(t *testing.T) {
	tests := []struct {
		raw  string
		want Direction
	}{
		{"ASC", Asc},
		{"asc", Asc},
		{"DESC", Desc},
		{"desc", Desc},
		{" Desc ", Desc},
		{"DESC; DROP TABLE entries", Asc},
		{"sideways", Asc},
		{"", Asc},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(Params{Direction: tt.raw}, testSchema).Direction)
		})
	}
}

func TestResolve_OrderBy(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"name", "name"},
		{"VALUE", "value"},
		{"created_at", "created_at"},
		{"password_digest", "id"},
		{"name; DELETE FROM users", "id"},
		{"(select 1)", "id"},
		{"", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(Params{OrderBy: tt.raw}, testSchema).OrderBy)
		})
	}
}

func TestResolve_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"valid", "3", "10", 3, 10},
		{"zero", "0", "0", 1, 25},
		{"negative", "-2", "-5", 1, 25},
		{"non numeric", "two", "lots", 1, 25},
		{"clamped", "1", "1000", 1, MaxPerPage},
		{"at ceiling", "1", "100", 1, 100},
		{"padded", " 2 ", " 5 ", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Resolve(Params{Page: tt.page, PerPage: tt.perPage}, testSchema)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantPerPage, q.PerPage)
		})
	}
}

func TestResolve_Search(t *testing.T) {
	q := Resolve(Params{Search: "  rent  march "}, testSchema)
	assert.Equal(t, "rent  march", q.Search)
	assert.Equal(t, []string{"rent", "march"}, q.Terms())

	q = Resolve(Params{Search: "   "}, testSchema)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Terms())
}

func TestParamsFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("direction", "desc")
	v.Set("order_by", "date")
	v.Set("page", "2")
	v.Set("per_page", "50")
	v.Set("search", "rent")

	assert.Equal(t, Params{
		Direction: "desc",
		OrderBy:   "date",
		Page:      "2",
		PerPage:   "50",
		Search:    "rent",
	}, ParamsFromValues(v))
}

func TestQuery_WhereDoesNotAlias(t *testing.T) {
	base := Resolve(Params{}, testSchema).Where("category_id", uint(1))
	a := base.Where("category_id", uint(2))
	b := base.Where("category_id", uint(3))

	assert.Len(t, base.Filters, 1)
	assert.Equal(t, uint(2), a.Filters[1].Value)
	assert.Equal(t, uint(3), b.Filters[1].Value)
}

func TestQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, Query{Page: 1, PerPage: 25}.Offset())
	assert.Equal(t, 50, Query{Page: 3, PerPage: 25}.Offset())
}

func TestLastPage(t *testing.T) {
	assert.Equal(t, 0, LastPage(0, 25))
	assert.Equal(t, 1, LastPage(1, 25))
	assert.Equal(t, 1, LastPage(25, 25))
	assert.Equal(t, 2, LastPage(26, 25))
	assert.Equal(t, 4, LastPage(100, 0))
}
