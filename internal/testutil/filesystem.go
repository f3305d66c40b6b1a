package testutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"tidy-go/internal/triage"
)

// MockFilesystemManager is an in-memory filesystem for testing the scan
// path without touching the real filesystem.
type MockFilesystemManager struct {
	dirs     map[string]bool
	files    map[string]triage.FileMetadata // keyed by absolute path
	statFail map[string]bool
	listErr  error
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		dirs:     make(map[string]bool),
		files:    make(map[string]triage.FileMetadata),
		statFail: make(map[string]bool),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.dirs[path] = true
}

// AddFile adds a file. meta.Path must be set; Name and Ext are derived
// from it when left empty.
func (m *MockFilesystemManager) AddFile(meta triage.FileMetadata) {
	if meta.Name == "" {
		meta.Name = filepath.Base(meta.Path)
	}
	if meta.Ext == "" {
		meta.Ext = lowerExt(meta.Name)
	}
	m.files[meta.Path] = meta
}

// FailStat marks a path so that listing counts it as a skipped entry,
// simulating a stat race with deletion.
func (m *MockFilesystemManager) FailStat(path string) {
	m.statFail[path] = true
}

// SetListError makes ListFiles fail entirely, simulating an unreadable
// directory.
func (m *MockFilesystemManager) SetListError(err error) {
	m.listErr = err
}

func (m *MockFilesystemManager) Resolve(rawPath string) (string, error) {
	if m.dirs[rawPath] {
		return rawPath, nil
	}
	if _, ok := m.files[rawPath]; ok {
		return "", fmt.Errorf("path is not a directory: %s", rawPath)
	}
	return "", fmt.Errorf("stat path: %s does not exist", rawPath)
}

func (m *MockFilesystemManager) ListFiles(dir string) ([]triage.FileMetadata, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	if !m.dirs[dir] {
		return nil, 0, fmt.Errorf("reading directory: %s does not exist", dir)
	}

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		if filepath.Dir(p) == dir {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var files []triage.FileMetadata
	skipped := 0
	for _, p := range paths {
		if m.statFail[p] {
			skipped++
			continue
		}
		files = append(files, m.files[p])
	}
	return files, skipped, nil
}

func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Compile-time check that MockFilesystemManager implements triage.FilesystemManager.
var _ triage.FilesystemManager = (*MockFilesystemManager)(nil)
