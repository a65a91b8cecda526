// Package db opens and migrates the Haulyard archive database.
package db

import (
	"fmt"

	"github.com/zulandar/haulyard/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the driver-specific connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	switch cfg.Driver {
	case "mysql":
		auth := cfg.User
		if auth == "" {
			auth = "root"
		}
		if cfg.Password != "" {
			auth += ":" + cfg.Password
		}
		return fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true", auth, cfg.Host, cfg.Port, cfg.Name)
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=disable", cfg.Host, cfg.Port, cfg.Name)
		if cfg.User != "" {
			dsn += " user=" + cfg.User
		}
		if cfg.Password != "" {
			dsn += " password=" + cfg.Password
		}
		return dsn
	default:
		return cfg.Path
	}
}

// dialector picks the gorm driver for cfg.
func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := DSN(cfg)
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}

// Connect opens a GORM connection described by cfg.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect %s: %w", cfg.Driver, err)
	}
	return db, nil
}
