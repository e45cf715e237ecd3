package database

import (
	"fmt"

	applog "github.com/yukikurage/project-tracker-api/internal/logger"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the composite and lookup indexes that the struct tags do not
// declare.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Active-task listing per project
		{"tasks", "idx_tasks_project_active", "project_id, is_deleted"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_due_date", "due_date"},

		// Reverse lookup of a user's collaborations
		{models.ProjectUsersTable, "idx_project_users_user_id", "user_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		applog.L().Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
