package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Page selects one slice of a list query. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Offset(p.offset()).Limit(p.Limit)
}

// orderClause turns "field" or "-field" into an ORDER BY expression, accepting
// only fields listed in allowed. Unknown fields fall back to def.
func orderClause(ordering string, allowed map[string]string, def string) string {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return def
	}
	desc := strings.HasPrefix(ordering, "-")
	column, ok := allowed[strings.TrimPrefix(ordering, "-")]
	if !ok {
		return def
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
