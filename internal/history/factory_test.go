package history

import (
	"path/filepath"
	"testing"

	"tidy-go/internal/config"
)

func TestNewFromConfig(t *testing.T) {
	t.Run("memory database", func(t *testing.T) {
		db, err := NewFromConfig(config.DatabaseConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		defer db.Close()

		if db.Path() != ":memory:" {
			t.Errorf("Path() = %s, want :memory:", db.Path())
		}
	})

	t.Run("sqlite database under data_dir", func(t *testing.T) {
		dir := t.TempDir()
		db, err := NewFromConfig(config.DatabaseConfig{Type: "sqlite", DataDir: dir})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		defer db.Close()

		if db.Path() != filepath.Join(dir, "history.db") {
			t.Errorf("Path() = %s", db.Path())
		}
	})

	t.Run("empty type defaults to sqlite", func(t *testing.T) {
		dir := t.TempDir()
		db, err := NewFromConfig(config.DatabaseConfig{DataDir: dir})
		if err != nil {
			t.Fatalf("NewFromConfig() error = %v", err)
		}
		db.Close()
	})

	t.Run("sqlite without data_dir", func(t *testing.T) {
		if _, err := NewFromConfig(config.DatabaseConfig{Type: "sqlite"}); err == nil {
			t.Error("expected error for missing data_dir")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewFromConfig(config.DatabaseConfig{Type: "postgres"}); err == nil {
			t.Error("expected error for unknown database type")
		}
	})
}
