package triage

import "time"

// FileMetadata is the live view of a single file on the watched surface.
// It is rebuilt from the filesystem on every scan and never persisted.
type FileMetadata struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"` // absolute; the tracking key
	Ext          string    `json:"ext"`  // lowercase, including the dot
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
	LastAccess   time.Time `json:"last_access"`
}

// ScoredFileView is the merged per-file result returned to callers:
// live metadata, the user-relevant slice of the tracking record, and
// the trash score with its reason codes.
type ScoredFileView struct {
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Ext          string     `json:"ext"`
	SizeBytes    int64      `json:"size_bytes"`
	LastModified time.Time  `json:"last_modified"`
	LastAccess   time.Time  `json:"last_access"`
	UserLabel    *string    `json:"user_label"`
	UserCategory *string    `json:"user_category"`
	FirstSeenAt  *time.Time `json:"first_seen_at"`
	LastSeenAt   *time.Time `json:"last_seen_at"`
	SeenCount    int        `json:"seen_count"`
	TrashScore   float64    `json:"trash_score"`
	TrashReasons []string   `json:"trash_reasons"`
}

// ScanResult is the outcome of one full scan pass.
// A pass that listed the directory always produces a ScanResult, even if
// persisting the updated tracking state failed afterwards; SaveErr carries
// that failure so callers can report it without discarding the views.
type ScanResult struct {
	Files      []ScoredFileView
	Skipped    int // entries dropped by ignore rules or per-entry stat failures
	StartedAt  time.Time
	FinishedAt time.Time
	SaveErr    error
}
