package fs

import (
	"path/filepath"
	"strings"
)

// IgnoreMatcher checks file names against a set of ignore patterns.
// The watched surface is a single flat directory, so patterns match
// basenames only, using filepath.Match glob syntax (e.g. "*.lnk",
// "desktop.ini").
type IgnoreMatcher struct {
	patterns []string
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []string
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, raw)
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the given file name should be excluded from scans.
// Malformed patterns never match.
func (m *IgnoreMatcher) Match(name string) bool {
	for _, p := range m.patterns {
		if matched, err := filepath.Match(p, name); err == nil && matched {
			return true
		}
	}
	return false
}
