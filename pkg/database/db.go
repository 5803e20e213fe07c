// Package database owns the shared gorm handle and its connection pool.
package database

import (
	"fmt"

	"github.com/shashiranjanraj/bazaar/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database and sizes the connection pool.
// Returns an error instead of calling log.Fatal so the caller can shut
// down gracefully.
func Connect() error {
	dialector, err := buildDialector(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return fmt.Errorf("database: build dialector: %w", err)
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		// Request logging covers queries; GORM's own logger stays quiet.
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.DBMaxOpenConns())
	sqlDB.SetMaxIdleConns(config.DBMaxIdleConns())
	sqlDB.SetConnMaxLifetime(config.DBConnMaxLifetime())

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	return nil
}

// Healthy pings the database. Used by the health endpoint.
func Healthy() error {
	if DB == nil {
		return fmt.Errorf("database: not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
