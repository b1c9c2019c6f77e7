package wranglebase

import (
	"flag"
	"fmt"

	"github.com/dracory/env"

	"github.com/wranglebase/wranglebase/shared/constants"
	"github.com/wranglebase/wranglebase/store/mongostore"
	"github.com/wranglebase/wranglebase/store/sqlstore"
)

// Config holds all configuration for a Wranglebase instance. It is built
// once at startup and never re-read.
type Config struct {
	HTTPPort      int
	BasePath      string
	ActionParam   string
	SessionSecret string

	// Backend selects the store implementation: postgres, mysql, sqlite,
	// sqlserver, or mongo.
	Backend string

	SQL   sqlstore.Config
	Mongo mongostore.Config
}

// LoadConfig reads flags/env with sensible defaults. Flags take precedence
// over env.
func LoadConfig() (Config, error) {
	var cfg Config

	// Optionally load from .env files (missing files are ignored inside the lib)
	env.Load(".env")

	cfg.HTTPPort = env.GetIntOrDefault("HTTP_PORT", 8080)
	cfg.BasePath = env.GetStringOrDefault("BASE_PATH", "/")
	cfg.ActionParam = env.GetStringOrDefault("ACTION_PARAM", "action")
	cfg.SessionSecret = env.GetStringOrDefault("SESSION_SECRET", "dev-insecure-change-me")
	cfg.Backend = env.GetStringOrDefault("BACKEND", constants.BackendPostgres)

	cfg.SQL = sqlstore.Config{
		Driver:   cfg.Backend,
		Host:     env.GetStringOrDefault("PGHOST", "localhost"),
		Port:     env.GetIntOrDefault("PGPORT", 5432),
		User:     env.GetStringOrDefault("PGUSER", "postgres"),
		Password: env.GetStringOrDefault("PGPASSWORD", ""),
		Database: env.GetStringOrDefault("PGDATABASE", "Wrangling"),
		SSLMode:  env.GetStringOrDefault("PGSSLMODE", "disable"),
	}
	cfg.Mongo = mongostore.Config{
		Host:     env.GetStringOrDefault("MONGO_HOST", "localhost"),
		Port:     env.GetIntOrDefault("MONGO_PORT", 27017),
		User:     env.GetStringOrDefault("MONGO_USER", ""),
		Password: env.GetStringOrDefault("MONGO_PASSWORD", ""),
		Database: env.GetStringOrDefault("MONGO_DATABASE", "Wrangling"),
	}

	// Flags
	port := flag.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	base := flag.String("base", cfg.BasePath, "Base path to mount handler under (e.g. /db)")
	backend := flag.String("backend", cfg.Backend, "Store backend (postgres|mysql|sqlite|sqlserver|mongo)")
	flag.Parse()

	cfg.HTTPPort = *port
	cfg.BasePath = *base
	cfg.Backend = *backend
	cfg.SQL.Driver = cfg.Backend

	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is required")
	}
	return cfg, nil
}
