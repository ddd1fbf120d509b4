// Package config reads taskflow settings from the environment.
//
// Environment variables:
//   - TASKFLOW_DIR: data directory (default: ~/.taskflow)
//   - TASKFLOW_STORAGE_BACKEND: "json" (default), "sqlite" or "postgres"
//   - TASKFLOW_JSON_PATH: custom JSON store path (default: <dir>/tasks.json)
//   - TASKFLOW_SQLITE_PATH: custom SQLite path (default: <dir>/tasks.db)
//   - TASKFLOW_POSTGRES_URL: connection string, required for "postgres"
//   - TASKFLOW_MAX_INSTANCES: recurrence expansion cap (default: 5000)
//   - TASKFLOW_LOG_LEVEL: logrus level name (default: info)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JamesPrial/taskflow/internal/pathutil"
	"github.com/JamesPrial/taskflow/internal/recurrence"
)

// Backend names accepted by TASKFLOW_STORAGE_BACKEND.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Storage selects and locates the persisted store.
type Storage struct {
	Backend     string
	JSONPath    string
	SQLitePath  string
	PostgresURL string
}

// Config is the resolved process configuration.
type Config struct {
	Dir          string
	Storage      Storage
	MaxInstances int
	LogLevel     string
}

// Load resolves the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom resolves the configuration using getenv for lookups.
//
// Custom store paths are confined to the data directory; an escaping path is
// an error rather than a silent fallback.
func LoadFrom(getenv func(string) string) (Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	dir := env("TASKFLOW_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".taskflow")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TASKFLOW_DIR: %w", err)
	}

	cfg := Config{
		Dir:          dir,
		MaxInstances: recurrence.MaxInstances,
		LogLevel:     env("TASKFLOW_LOG_LEVEL"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if raw := env("TASKFLOW_MAX_INSTANCES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid TASKFLOW_MAX_INSTANCES %q: expected a positive integer", raw)
		}
		cfg.MaxInstances = n
	}

	backend := strings.ToLower(env("TASKFLOW_STORAGE_BACKEND"))
	if backend == "" {
		backend = BackendJSON
	}
	cfg.Storage.Backend = backend

	switch backend {
	case BackendJSON:
		cfg.Storage.JSONPath, err = storePath(dir, env("TASKFLOW_JSON_PATH"), "tasks.json")
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKFLOW_JSON_PATH: %w", err)
		}
	case BackendSQLite:
		cfg.Storage.SQLitePath, err = storePath(dir, env("TASKFLOW_SQLITE_PATH"), "tasks.db")
		if err != nil {
			return Config{}, fmt.Errorf("invalid TASKFLOW_SQLITE_PATH: %w", err)
		}
	case BackendPostgres:
		cfg.Storage.PostgresURL = env("TASKFLOW_POSTGRES_URL")
		if cfg.Storage.PostgresURL == "" {
			return Config{}, fmt.Errorf("TASKFLOW_POSTGRES_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite' or 'postgres'", backend)
	}

	return cfg, nil
}

func storePath(dir, custom, name string) (string, error) {
	if custom == "" {
		return filepath.Join(dir, name), nil
	}
	return pathutil.ResolveSafePath(dir, custom)
}
