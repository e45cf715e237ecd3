package repository

import (
	"context"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// saveSoftDelete writes the is_deleted/deleted_at pair of record, which must be
// a pointer to a model with a primary key set.
func saveSoftDelete(ctx context.Context, db *gorm.DB, record interface{}, sd models.SoftDelete) error {
	return db.WithContext(ctx).
		Model(record).
		Updates(map[string]interface{}{
			"is_deleted": sd.IsDeleted,
			"deleted_at": sd.DeletedAt,
		}).Error
}
