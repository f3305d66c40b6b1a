package triage

import (
	"fmt"

	"tidy-go/internal/state"
)

// TriageService is the orchestration layer: it merges live file metadata
// with persisted tracking records, scores each file, and keeps the
// tracking store up to date. One Scan call is one sequential pass:
// load store, iterate files, save store.
type TriageService struct {
	tracker *state.TrackingStore
	fsmgr   FilesystemManager
	scorer  Scorer
	logger  Logger
	clock   Clock
}

// NewTriageService creates a TriageService with the provided dependencies.
// Pass a NopScorer when scoring is not wanted; files are then listed with a
// zero score instead of failing.
func NewTriageService(tracker *state.TrackingStore, fsmgr FilesystemManager, scorer Scorer, logger Logger, clock Clock) *TriageService {
	if scorer == nil {
		scorer = NopScorer{}
	}
	return &TriageService{
		tracker: tracker,
		fsmgr:   fsmgr,
		scorer:  scorer,
		logger:  logger,
		clock:   clock,
	}
}

// Scan enumerates the watched directory, refreshes every file's tracking
// record, scores it, and returns the merged views. The store is loaded once
// at the start and saved once at the end. A save failure does not discard
// the computed result; it is recorded on ScanResult.SaveErr. An unreadable
// directory is a scan-level error with no partial result.
func (s *TriageService) Scan(rawDir string) (*ScanResult, error) {
	started := s.clock.Now().UTC()

	dir, err := s.fsmgr.Resolve(rawDir)
	if err != nil {
		return nil, fmt.Errorf("resolving watched directory: %w", err)
	}

	store := s.tracker.Load()

	metas, skipped, err := s.fsmgr.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	views := make([]ScoredFileView, 0, len(metas))
	for _, meta := range metas {
		rec := store.UpdateSeen(meta.Path, meta.LastModified, meta.SizeBytes, s.clock.Now())

		score, reasons := s.scoreFile(meta, rec)

		// The user override must hold even if the scorer misbehaves:
		// a pinned/keep label always zeroes the score.
		if rec.Label != nil && (*rec.Label == state.LabelPinned || *rec.Label == state.LabelKeep) {
			score = 0
		}

		views = append(views, ScoredFileView{
			Name:         meta.Name,
			Path:         meta.Path,
			Ext:          meta.Ext,
			SizeBytes:    meta.SizeBytes,
			LastModified: meta.LastModified,
			LastAccess:   meta.LastAccess,
			UserLabel:    rec.Label,
			UserCategory: rec.Category,
			FirstSeenAt:  rec.FirstSeenAt,
			LastSeenAt:   rec.LastSeenAt,
			SeenCount:    rec.SeenCount,
			TrashScore:   score,
			TrashReasons: reasons,
		})
	}

	result := &ScanResult{
		Files:      views,
		Skipped:    skipped,
		StartedAt:  started,
		FinishedAt: s.clock.Now().UTC(),
	}

	if err := s.tracker.Save(store); err != nil {
		// History for this pass is lost, but the views are already
		// computed — report the failure without invalidating them.
		s.logger.Error("saving tracking state failed", "path", s.tracker.Path(), "error", err)
		result.SaveErr = err
	}

	s.logger.Info("scan complete", "dir", dir, "files", len(views), "skipped", skipped)
	return result, nil
}

// scoreFile calls the scorer, degrading a panic to a zero score so one bad
// rule cannot abort the whole pass.
func (s *TriageService) scoreFile(meta FileMetadata, rec *state.TrackingRecord) (score float64, reasons []string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("scorer failed; using zero score", "path", meta.Path, "panic", r)
			score, reasons = 0, nil
		}
	}()
	return s.scorer.Score(meta, rec)
}

// SetLabel assigns the user label for path as its own load-mutate-save
// transaction, independent of any scan pass. A nil label clears it.
func (s *TriageService) SetLabel(path string, label *string) error {
	store := s.tracker.Load()
	store.SetLabel(path, label)
	if err := s.tracker.Save(store); err != nil {
		return fmt.Errorf("saving label: %w", err)
	}
	s.logger.Info("label set", "path", path, "label", strOrNone(label))
	return nil
}

// SetCategory assigns the user category for path. A nil category clears it.
func (s *TriageService) SetCategory(path string, category *string) error {
	store := s.tracker.Load()
	store.SetCategory(path, category)
	if err := s.tracker.Save(store); err != nil {
		return fmt.Errorf("saving category: %w", err)
	}
	s.logger.Info("category set", "path", path, "category", strOrNone(category))
	return nil
}

// ProfileSummary loads the store and aggregates its user-owned fields.
func (s *TriageService) ProfileSummary() state.ProfileSummary {
	return s.tracker.Load().ProfileSummary()
}

func strOrNone(s *string) string {
	if s == nil {
		return "none"
	}
	return *s
}
