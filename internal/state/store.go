package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StoreVersion is the current schema version of the persisted store.
const StoreVersion = 1

// Store is the in-memory form of the persisted tracking state:
// a schema version plus one TrackingRecord per absolute path ever observed.
// Records are never deleted, even when the file disappears — reappearance
// under the same path resumes its history.
type Store struct {
	Version int                        `json:"version"`
	Files   map[string]*TrackingRecord `json:"files"`
}

// NewStore returns an empty store of the current version.
func NewStore() *Store {
	return &Store{
		Version: StoreVersion,
		Files:   make(map[string]*TrackingRecord),
	}
}

// GetOrCreateRecord returns the record for path, inserting an empty one
// if the path has never been observed.
func (s *Store) GetOrCreateRecord(path string) *TrackingRecord {
	if rec, ok := s.Files[path]; ok && rec != nil {
		return rec
	}
	rec := &TrackingRecord{}
	s.Files[path] = rec
	return rec
}

// UpdateSeen records one scan observation of path at the given time.
// FirstSeenAt is write-once; LastSeenAt and SeenCount advance every pass;
// the modified time and size mirror the live metadata. Label and Category
// are left untouched.
func (s *Store) UpdateSeen(path string, modified time.Time, sizeBytes int64, now time.Time) *TrackingRecord {
	rec := s.GetOrCreateRecord(path)

	now = now.UTC()
	if rec.FirstSeenAt == nil {
		first := now
		rec.FirstSeenAt = &first
	}
	last := now
	rec.LastSeenAt = &last
	rec.SeenCount++

	mod := modified.UTC()
	rec.LastModified = &mod
	size := sizeBytes
	rec.SizeBytes = &size

	return rec
}

// SetLabel assigns the user label for path, creating the record if needed.
// A nil label clears it. Values are not validated; the caller owns the enum.
func (s *Store) SetLabel(path string, label *string) *TrackingRecord {
	rec := s.GetOrCreateRecord(path)
	rec.Label = label
	return rec
}

// SetCategory assigns the user category for path, creating the record if
// needed. A nil category clears it.
func (s *Store) SetCategory(path string, category *string) *TrackingRecord {
	rec := s.GetOrCreateRecord(path)
	rec.Category = category
	return rec
}

// TrackingStore persists a Store as a single JSON file.
// The path is fixed at construction; no environment lookups happen here.
type TrackingStore struct {
	path string
}

// NewTrackingStore creates a TrackingStore backed by the given file path.
func NewTrackingStore(path string) *TrackingStore {
	return &TrackingStore{path: path}
}

// Path returns the store file location.
func (ts *TrackingStore) Path() string { return ts.path }

// Load reads the persisted store. It never fails: a missing file, unreadable
// file, malformed JSON, or an unexpected shape all degrade to an empty store
// of the current version. The returned store is always stamped with the
// current version regardless of what was on disk.
func (ts *TrackingStore) Load() *Store {
	data, err := os.ReadFile(ts.path)
	if err != nil {
		return NewStore()
	}

	var raw struct {
		Files map[string]json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return NewStore()
	}

	store := NewStore()
	for path, rawRec := range raw.Files {
		rec := &TrackingRecord{}
		// TrackingRecord decodes permissively and never returns an error;
		// a non-object record simply stays zero-valued.
		_ = json.Unmarshal(rawRec, rec)
		store.Files[path] = rec
	}
	return store
}

// Save writes the store to disk, creating the containing directory if
// missing. Last writer wins; the system is single-user and single-process.
func (ts *TrackingStore) Save(store *Store) error {
	if err := os.MkdirAll(filepath.Dir(ts.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	store.Version = StoreVersion
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if err := os.WriteFile(ts.path, data, 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
