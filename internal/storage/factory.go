package storage

import (
	"context"
	"fmt"

	"github.com/JamesPrial/taskflow/internal/config"
)

// Open returns the store selected by cfg. Paths in cfg are expected to have
// been resolved by config.Load.
func Open(ctx context.Context, cfg config.Storage) (Store, error) {
	switch cfg.Backend {
	case config.BackendJSON, "":
		if cfg.JSONPath == "" {
			return nil, fmt.Errorf("json backend requires a file path")
		}
		return NewJSONBackend(cfg.JSONPath), nil

	case config.BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		return NewSQLiteBackend(ctx, cfg.SQLitePath)

	case config.BackendPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string")
		}
		return NewPostgresBackend(ctx, cfg.PostgresURL)

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite' or 'postgres'", cfg.Backend)
	}
}
