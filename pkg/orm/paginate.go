// Package orm holds query helpers shared by the repositories.
package orm

import (
	"strings"

	"gorm.io/gorm"
)

// PageSize is the fixed page length of every list screen.
const PageSize = 12

// Pagination is the metadata returned next to a page of rows.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// Paginate counts q, then loads one page of it into dest. page is 1-based;
// values below 1 select the first page.
func Paginate(q *gorm.DB, page, perPage int, dest interface{}) (Pagination, error) {
	if perPage <= 0 {
		perPage = PageSize
	}
	if page < 1 {
		page = 1
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	p := Pagination{CurrentPage: page, PerPage: perPage, Total: total, LastPage: 1}
	if total > 0 {
		p.LastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}

	offset := (page - 1) * perPage
	if err := q.Session(&gorm.Session{}).Offset(offset).Limit(perPage).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	if int64(offset) < total {
		p.From = offset + 1
		p.To = offset + perPage
		if int64(p.To) > total {
			p.To = int(total)
		}
	}
	return p, nil
}

// Search adds a case-insensitive substring match of term against any of
// columns, grouped in parentheses so it cannot widen earlier conditions.
// An empty term leaves q unchanged.
func Search(q *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}

	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '!'"
		args[i] = like
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)
	return r.Replace(s)
}
