package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TIDY_CONFIG_PATH", "/custom/tidy.toml")
		t.Setenv("TIDY_HOME", "/custom/data")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/tidy.toml" {
			t.Errorf("config_path = %s", defaults["config_path"])
		}
		if defaults["base_dir"] != "/custom/data" {
			t.Errorf("base_dir = %s", defaults["base_dir"])
		}
		if defaults["log_dir"] != filepath.Join("/custom/data", "log") {
			t.Errorf("log_dir = %s", defaults["log_dir"])
		}
	})

	t.Run("home fallbacks", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("TIDY_CONFIG_PATH", "")
		t.Setenv("TIDY_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != filepath.Join(home, ".config", "tidy.toml") {
			t.Errorf("config_path = %s", defaults["config_path"])
		}
		if defaults["base_dir"] != filepath.Join(home, ".local", "share", "tidy") {
			t.Errorf("base_dir = %s", defaults["base_dir"])
		}
		// No ~/Desktop in a fresh temp home.
		if defaults["watch_dir"] != home {
			t.Errorf("watch_dir = %s, want %s", defaults["watch_dir"], home)
		}
	})

	t.Run("watch_dir prefers an existing Desktop", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("TIDY_CONFIG_PATH", "")
		t.Setenv("TIDY_HOME", "")

		desktop := filepath.Join(home, "Desktop")
		if err := os.Mkdir(desktop, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if defaults["watch_dir"] != desktop {
			t.Errorf("watch_dir = %s, want %s", defaults["watch_dir"], desktop)
		}
	})
}
