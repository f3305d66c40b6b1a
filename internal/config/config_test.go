package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig("host-1", "/data/tidy", "/home/u/Desktop")

	if cfg.StatePath != filepath.Join("/data/tidy", "file_state.json") {
		t.Errorf("StatePath = %s", cfg.StatePath)
	}
	if cfg.LogDir != filepath.Join("/data/tidy", "log") {
		t.Errorf("LogDir = %s", cfg.LogDir)
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.DataDir != "/data/tidy" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Server.Listen != "127.0.0.1:8976" {
		t.Errorf("Server.Listen = %s", cfg.Server.Listen)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := NewConfig("host-1", "/data/tidy", "/home/u/Desktop")
	cfg.Filesystem.Ignore = []string{"*.lnk", "desktop.ini"}
	cfg.Autorun.Command = "/usr/bin/tidy"
	cfg.Autorun.Args = "serve"

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.HostID != cfg.HostID || got.WatchDir != cfg.WatchDir {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
	if len(got.Filesystem.Ignore) != 2 || got.Filesystem.Ignore[0] != "*.lnk" {
		t.Errorf("Filesystem.Ignore = %v", got.Filesystem.Ignore)
	}
	if got.Autorun.Command != "/usr/bin/tidy" || got.Autorun.Args != "serve" {
		t.Errorf("Autorun = %+v", got.Autorun)
	}
	if got.Server.Listen != cfg.Server.Listen {
		t.Errorf("Server.Listen = %s", got.Server.Listen)
	}
}

func TestReadRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	m := &Manager{}
	if _, err := m.Read(strings.NewReader("watch_dir = [unterminated")); err == nil {
		t.Error("expected decode error")
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "tidy.toml")
	cfg := NewConfig("host-1", "/data/tidy", "/home/u/Desktop")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.HostID != "host-1" {
		t.Errorf("HostID = %s", got.HostID)
	}

	// A second Init must refuse to clobber the file.
	if err := Init(path, NewConfig("host-2", "/other", "/other")); err == nil {
		t.Error("expected error initializing over an existing config")
	}
}
