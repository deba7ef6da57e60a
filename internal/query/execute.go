package query

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscape escapes LIKE wildcards. '!' needs no quoting in any supported dialect.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// Page is the list response envelope.
type Page[T any] struct {
	Result    []T       `json:"result"`
	Direction Direction `json:"direction"`
	OrderBy   string    `json:"order_by"`
	Page      int       `json:"page"`
	PerPage   int       `json:"per_page"`
	Search    *string   `json:"search"`
	Total     int64     `json:"total"`
	LastPage  int       `json:"last_page"`
}

// NewPage builds the envelope for rows out of total matches.
func NewPage[T any](q Query, rows []T, total int64) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	var search *string
	if q.Search != "" {
		s := q.Search
		search = &s
	}
	return Page[T]{
		Result:    rows,
		Direction: q.Direction,
		OrderBy:   q.OrderBy,
		Page:      q.Page,
		PerPage:   q.PerPage,
		Search:    search,
		Total:     total,
		LastPage:  LastPage(total, q.PerPage),
	}
}

// LastPage is ceil(total/perPage), 0 when there is nothing to show.
func LastPage(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Map converts the rows of p with fn, keeping the envelope.
func Map[T, V any](p Page[T], fn func(T) V) Page[V] {
	out := make([]V, len(p.Result))
	for i, row := range p.Result {
		out[i] = fn(row)
	}
	return Page[V]{
		Result:    out,
		Direction: p.Direction,
		OrderBy:   p.OrderBy,
		Page:      p.Page,
		PerPage:   p.PerPage,
		Search:    p.Search,
		Total:     p.Total,
		LastPage:  p.LastPage,
	}
}

// Execute runs q against base, which carries any scoping such as the owner.
// The total is counted on the filtered query before pagination.
func Execute[T any](ctx context.Context, base *gorm.DB, s Schema, q Query) (Page[T], error) {
	tx, err := Apply(base.WithContext(ctx).Model(new(T)), s, q)
	if err != nil {
		return Page[T]{}, err
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("count: %w", err)
	}
	if total == 0 {
		return NewPage[T](q, nil, 0), nil
	}

	var rows []T
	if err := Order(tx, s, q).Offset(q.Offset()).Limit(q.PerPage).Find(&rows).Error; err != nil {
		return Page[T]{}, fmt.Errorf("find: %w", err)
	}
	return NewPage(q, rows, total), nil
}

// Apply adds the search and equality predicates of q to tx.
func Apply(tx *gorm.DB, s Schema, q Query) (*gorm.DB, error) {
	if search := searchCondition(s, q.Terms()); search != nil {
		tx = tx.Where(search)
	}
	for _, f := range q.Filters {
		if !s.filterable(f.Column) {
			return nil, fmt.Errorf("column %q is not filterable", f.Column)
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return tx, nil
}

// Order adds the ordering of q to tx, with id as a tie breaker.
func Order(tx *gorm.DB, s Schema, q Query) *gorm.DB {
	column := q.OrderBy
	if !s.sortable(column) {
		column = DefaultOrderBy
	}
	desc := q.Direction == Desc
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	if column != DefaultOrderBy {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: DefaultOrderBy}, Desc: desc})
	}
	return tx
}

// searchCondition matches rows where any term is a case-insensitive substring
// of any searchable column.
func searchCondition(s Schema, terms []string) clause.Expression {
	if len(terms) == 0 || len(s.Searchable) == 0 {
		return nil
	}
	exprs := make([]clause.Expression, 0, len(terms)*len(s.Searchable))
	for _, term := range terms {
		pattern := "%" + likeReplacer.Replace(strings.ToLower(term)) + "%"
		for _, column := range s.Searchable {
			exprs = append(exprs, clause.Expr{
				SQL:  "LOWER(?) LIKE ? ESCAPE '" + likeEscape + "'",
				Vars: []any{clause.Column{Name: column}, pattern},
			})
		}
	}
	// And keeps a lone OR group from being joined to earlier conditions with OR.
	return clause.And(clause.Or(exprs...))
}
