package history

import (
	"fmt"
	"path/filepath"

	"tidy-go/internal/config"
)

// NewFromConfig creates a history DB from the database config section.
// The type field selects the backend: "sqlite" (default) stores
// history.db under data_dir; "memory" is for tests.
func NewFromConfig(cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite database requires data_dir")
		}
		return Open(filepath.Join(cfg.DataDir, "history.db"))
	case "memory":
		return Open(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %q", cfg.Type)
	}
}
