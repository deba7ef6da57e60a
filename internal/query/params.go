// Package query turns untrusted list parameters into a bounded, injection safe
// query and executes it into a page envelope.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 100
	DefaultOrderBy = "id"
)

// Params are the raw list parameters as received from a request.
type Params struct {
	Direction string
	OrderBy   string
	Page      string
	PerPage   string
	Search    string
}

// ParamsFromValues reads Params from URL query values.
func ParamsFromValues(v url.Values) Params {
	return Params{
		Direction: v.Get("direction"),
		OrderBy:   v.Get("order_by"),
		Page:      v.Get("page"),
		PerPage:   v.Get("per_page"),
		Search:    v.Get("search"),
	}
}

// Schema describes what an entity allows to be sorted, searched and filtered on.
// Every name is a column identifier owned by the code, never by the request.
type Schema struct {
	Sortable   []string
	Searchable []string
	Filterable []string
}

func (s Schema) sortable(column string) bool   { return slices.Contains(s.Sortable, column) }
func (s Schema) filterable(column string) bool { return slices.Contains(s.Filterable, column) }

// Filter is an equality predicate on a filterable column.
type Filter struct {
	Column string
	Value  any
}

// Query is a normalized list request.
type Query struct {
	Direction Direction
	OrderBy   string
	Page      int
	PerPage   int
	Search    string
	Filters   []Filter
}

// Resolve normalizes p against s. It never fails: unknown or malformed values
// fall back to their defaults.
func Resolve(p Params, s Schema) Query {
	return Query{
		Direction: parseDirection(p.Direction),
		OrderBy:   parseOrderBy(p.OrderBy, s),
		Page:      parsePositive(p.Page, DefaultPage, 0),
		PerPage:   parsePositive(p.PerPage, DefaultPerPage, MaxPerPage),
		Search:    strings.TrimSpace(p.Search),
	}
}

// Where returns a copy of q with an additional equality filter.
func (q Query) Where(column string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Column: column, Value: value})
	return q
}

// Offset is the number of rows skipped before the current page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// Terms splits the search text into words.
func (q Query) Terms() []string {
	return strings.Fields(q.Search)
}

func parseDirection(raw string) Direction {
	switch Direction(strings.ToUpper(strings.TrimSpace(raw))) {
	case Desc:
		return Desc
	default:
		return Asc
	}
}

func parseOrderBy(raw string, s Schema) string {
	column := strings.ToLower(strings.TrimSpace(raw))
	if s.sortable(column) {
		return column
	}
	return DefaultOrderBy
}

// parsePositive parses raw as a positive integer, falling back to def.
// A ceiling above zero clamps the result.
func parsePositive(raw string, def, ceiling int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	if ceiling > 0 && v > ceiling {
		return ceiling
	}
	return v
}
