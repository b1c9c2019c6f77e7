package sqlstore

import (
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormmysql "gorm.io/driver/mysql"
	gormpg "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	gormsqlserver "gorm.io/driver/sqlserver"
)

// Config holds connection settings for the relational backend. It is built
// once at startup and never mutated.
type Config struct {
	Driver   string // postgres, mysql, sqlite, sqlserver
	Host     string
	Port     int
	User     string
	Password string
	Database string // file path for sqlite
	SSLMode  string // postgres only; defaults to disable
}

// normalizeDriver collapses driver aliases to the canonical names used
// throughout this package.
func normalizeDriver(d string) string {
	switch strings.ToLower(d) {
	case "pg", "postgresql":
		return "postgres"
	case "mariadb":
		return "mysql"
	case "sqlite3":
		return "sqlite"
	case "mssql":
		return "sqlserver"
	default:
		return strings.ToLower(d)
	}
}

// DSN renders the driver-specific connection string for cfg.
func (cfg Config) DSN() string {
	switch normalizeDriver(cfg.Driver) {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
			cfg.Host, cfg.Port, cfg.Database)
	case "postgres":
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Database, cfg.Port, sslmode)
	case "sqlite":
		return cfg.Database
	case "sqlserver":
		return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
			cfg.Host, cfg.Port, cfg.Database)
	default:
		return ""
	}
}

// Open connects to the configured database and returns the relational Store.
// Unique-constraint violations are translated by GORM so callers see
// gorm.ErrDuplicatedKey regardless of dialect.
func Open(cfg Config) (*Store, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	driver := normalizeDriver(cfg.Driver)
	dsn := cfg.DSN()

	var db *gorm.DB
	var err error
	switch driver {
	case "postgres":
		db, err = gorm.Open(gormpg.Open(dsn), gormCfg)
	case "mysql":
		db, err = gorm.Open(gormmysql.Open(dsn), gormCfg)
	case "sqlite":
		db, err = gorm.Open(gormsqlite.Open(dsn), gormCfg)
	case "sqlserver":
		db, err = gorm.Open(gormsqlserver.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return &Store{db: db, driver: driver}, nil
}
