package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenMemory opens a private in-memory sqlite database with foreign keys
// enabled and the schema migrated. Each call gets its own database.
func OpenMemory() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), GormConfig(logger.Silent))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := MigrateDB(db); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
