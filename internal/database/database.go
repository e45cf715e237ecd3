package database

import (
	"fmt"

	"github.com/yukikurage/project-tracker-api/internal/config"
	applog "github.com/yukikurage/project-tracker-api/internal/logger"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector returns the GORM dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// GormConfig is shared by the server and the tests so that driver errors are
// translated the same way everywhere.
func GormConfig(logLevel logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

func Connect(cfg *config.Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	logLevel := logger.Warn
	if cfg.GinMode == "debug" {
		logLevel = logger.Info
	}

	DB, err = gorm.Open(dialector, GormConfig(logLevel))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// sqlite serialises writers; one connection avoids "database is locked".
		sqlDB, err := DB.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	applog.L().Info("database connection established", zap.String("driver", cfg.DBDriver))
	return nil
}

func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB creates or updates the schema on db.
func MigrateDB(db *gorm.DB) error {
	applog.L().Info("running database migrations")
	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	applog.L().Info("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
