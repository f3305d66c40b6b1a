package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tidy-go/internal/triage"
)

// OSFilesystemManager is the real filesystem implementation of
// triage.FilesystemManager. It performs actual filesystem operations using
// the os package.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem, excluding entries matching the given ignore patterns.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{ignore: NewIgnoreMatcher(ignorePatterns)}
}

// Resolve validates a raw path and returns its absolute form.
// The path must exist and be a directory.
func (m *OSFilesystemManager) Resolve(rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", absPath)
	}

	return absPath, nil
}

// ListFiles enumerates the immediate regular-file entries of dir.
// Subdirectories and non-regular entries (symlinks, devices, sockets) are
// skipped silently — the watched surface is a flat user folder. Entries
// matching an ignore pattern or failing stat are skipped and counted.
func (m *OSFilesystemManager) ListFiles(dir string) ([]triage.FileMetadata, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("reading directory: %w", err)
	}

	var files []triage.FileMetadata
	skipped := 0

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if m.ignore.Match(entry.Name()) {
			skipped++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Likely a race with deletion; skip this entry only.
			skipped++
			continue
		}

		files = append(files, triage.FileMetadata{
			Name:         entry.Name(),
			Path:         filepath.Join(dir, entry.Name()),
			Ext:          strings.ToLower(filepath.Ext(entry.Name())),
			SizeBytes:    info.Size(),
			LastModified: info.ModTime(),
			LastAccess:   accessTime(info),
		})
	}

	return files, skipped, nil
}

// Compile-time check that OSFilesystemManager implements triage.FilesystemManager.
var _ triage.FilesystemManager = (*OSFilesystemManager)(nil)
