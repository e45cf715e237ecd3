package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !params.Enabled {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Active restricts a query to rows that are not soft-deleted.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Deleted restricts a query to soft-deleted rows.
func Deleted(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}
