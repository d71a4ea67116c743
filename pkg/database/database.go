package database

import (
	"fmt"
	"os"
	"path/filepath"

	"medsynq/internal/model"
	"medsynq/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the configured database, tunes the connection pool and
// runs schema migrations. SQLite is the default; Postgres is selected with
// DB_DRIVER=postgres.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := openDialector(&cfg.DB)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.DB.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database connection: %w", err)
	}

	// Configure connection pool
	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if cfg.DB.Driver == "sqlite" {
		// SQLite reliability tuning; foreign_keys is off by default
		_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
		_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the table structure for all models.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Patient{},
		&model.Session{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Tenant names are unique case-insensitively; the column's own unique
	// index is case-sensitive, so back the store's check with a functional
	// index that holds under concurrent registrations
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_tenants_lower_name ON tenants (LOWER(name))").Error; err != nil {
		return fmt.Errorf("create tenant name index: %w", err)
	}
	return nil
}

func openDialector(cfg *config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		return sqlite.Open(cfg.Path), nil
	case "postgres":
		// PreferSimpleProtocol disables implicit prepared statement usage
		pgConfig := postgres.Config{
			DSN:                  cfg.GetDSN(),
			PreferSimpleProtocol: true,
		}
		return postgres.New(pgConfig), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
