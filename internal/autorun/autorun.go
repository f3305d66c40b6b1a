// Package autorun registers (and unregisters) the tidy launcher to run at
// login. On Linux this writes an XDG autostart desktop entry; other
// platforms report unsupported. Callers treat the returned status strings
// as opaque display text — the engine never depends on the outcome.
package autorun

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const entryName = "tidy.desktop"

// Target describes the command launched at login.
type Target struct {
	Command string
	Args    string
}

// Status strings returned by Enable and Disable.
const (
	StatusAdded         = "added_to_startup"
	StatusAlreadyAdded  = "already_in_startup"
	StatusRemoved       = "removed_from_startup"
	StatusNotFound      = "shortcut_not_found"
	StatusUnsupportedOS = "unsupported_os"
)

// IsEnabled reports whether a launch-at-login entry currently exists.
func IsEnabled() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	path, err := entryPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Enable writes the autostart entry for the given target and returns an
// opaque status string.
func Enable(target Target) string {
	if runtime.GOOS != "linux" {
		return StatusUnsupportedOS
	}
	if IsEnabled() {
		return StatusAlreadyAdded
	}
	if err := writeEntry(target); err != nil {
		return fmt.Sprintf("error_autorun:%v", err)
	}
	return StatusAdded
}

// Disable removes the autostart entry and returns an opaque status string.
func Disable() string {
	if runtime.GOOS != "linux" {
		return StatusUnsupportedOS
	}
	path, err := entryPath()
	if err != nil {
		return fmt.Sprintf("error_autorun:%v", err)
	}
	if _, err := os.Stat(path); err != nil {
		return StatusNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Sprintf("error_autorun:%v", err)
	}
	return StatusRemoved
}

// autostartDir returns the XDG autostart directory:
// $XDG_CONFIG_HOME/autostart, or ~/.config/autostart.
func autostartDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "autostart"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "autostart"), nil
}

func entryPath() (string, error) {
	dir, err := autostartDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, entryName), nil
}

func writeEntry(target Target) error {
	path, err := entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating autostart directory: %w", err)
	}

	exec := target.Command
	if target.Args != "" {
		exec += " " + target.Args
	}

	entry := strings.Join([]string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=Tidy",
		"Exec=" + exec,
		"X-GNOME-Autostart-enabled=true",
		"",
	}, "\n")

	if err := os.WriteFile(path, []byte(entry), 0644); err != nil {
		return fmt.Errorf("writing autostart entry: %w", err)
	}
	return nil
}
