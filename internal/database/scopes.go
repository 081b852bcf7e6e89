package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/task-tracker/internal/utils"
)

// Equals filters on column when value is set.
func Equals[T any](column string, value *T) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: *value})
	}
}

// Between applies an inclusive lower and exclusive upper bound on a time
// column. Either bound may be nil.
func Between[T any](column string, from, to *T) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(clause.Gte{Column: clause.Column{Name: column}, Value: *from})
		}
		if to != nil {
			db = db.Where(clause.Lt{Column: clause.Column{Name: column}, Value: *to})
		}
		return db
	}
}

// OrderBy applies a validated sort, falling back to fallback ascending.
func OrderBy(sort *utils.SortOrder, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sort == nil {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: fallback}})
		}
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: sort.Column}, Desc: sort.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: fallback}})
	}
}
