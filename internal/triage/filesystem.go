package triage

// FilesystemManager provides the filesystem primitives the scan needs.
// It abstracts directory access to enable testing without touching the
// real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns its absolute form.
	// The path must exist and be a directory.
	Resolve(rawPath string) (string, error)

	// ListFiles enumerates the immediate regular-file entries of dir,
	// non-recursively. Subdirectories and non-regular entries are skipped
	// silently. Entries dropped by ignore rules or by a per-entry stat
	// failure are counted in skipped. An unreadable directory is an error.
	ListFiles(dir string) (files []FileMetadata, skipped int, err error)
}
