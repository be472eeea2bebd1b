package history

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultSQLitePath is used when the sqlite backend has no connection string.
const DefaultSQLitePath = "res/history.db"

// StoreConfig holds configuration for the history backend
type StoreConfig struct {
	Type             string // "", "none", "json", "sqlite" or "postgres"
	ConnectionString string // File path for json and SQLite, DSN for Postgres
}

// NewStore creates a new Store instance based on the provided configuration
func NewStore(config StoreConfig) (Store, error) {
	switch strings.ToLower(config.Type) {
	case "", "none":
		return NopStore{}, nil
	case "json":
		if config.ConnectionString == "" {
			config.ConnectionString = filepath.Join("res", "history.json")
		}
		return NewFileStore(config.ConnectionString)
	case "postgres", "postgresql":
		if config.ConnectionString == "" {
			return nil, fmt.Errorf("postgres connection string is required")
		}
		return NewSQLStore(DialectPostgres, config.ConnectionString)
	case "sqlite", "sqlite3":
		if config.ConnectionString == "" {
			config.ConnectionString = DefaultSQLitePath
		}
		if err := ensureParent(config.ConnectionString); err != nil {
			return nil, err
		}
		return NewSQLStore(DialectSQLite, config.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
