package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy-go/internal/config"
	"tidy-go/internal/state"
	"tidy-go/internal/testutil"
	"tidy-go/internal/triage"
)

// newTestApp builds a TidyApp over mock collaborators and an in-memory
// history database.
func newTestApp(t *testing.T, scorer triage.Scorer) (*TidyApp, *testutil.MockFilesystemManager) {
	t.Helper()

	cfg := config.NewConfig("host-test", t.TempDir(), "/desk")
	tracker := state.NewTrackingStore(cfg.StatePath)
	fsmgr := testutil.NewMockFilesystemManager()
	clock := testutil.FixedClock()
	logger := triage.NewNopLogger()

	a := &TidyApp{
		cfg:     cfg,
		tracker: tracker,
		history: testutil.NewTestHistoryDB(t),
		service: triage.NewTriageService(tracker, fsmgr, scorer, logger, clock),
		clock:   clock,
		idgen:   testutil.NewStubIDGenerator(),
		logger:  logger,
	}
	return a, fsmgr
}

func TestTidyApp_Scan(t *testing.T) {
	t.Run("records a pass with aggregate counts", func(t *testing.T) {
		scores := map[string]float64{"a.txt": 0.75, "b.txt": 0.5, "c.txt": 0.25}
		scorer := &testutil.StubScorer{
			ScoreFn: func(meta triage.FileMetadata, _ *state.TrackingRecord) (float64, []string) {
				return scores[meta.Name], []string{"stub_signal"}
			},
		}
		a, fsmgr := newTestApp(t, scorer)

		fsmgr.AddDirectory("/desk")
		now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
		for name := range scores {
			fsmgr.AddFile(triage.FileMetadata{Path: "/desk/" + name, LastModified: now})
		}
		fsmgr.AddFile(triage.FileMetadata{Path: "/desk/vanished.txt", LastModified: now})
		fsmgr.FailStat("/desk/vanished.txt")

		result, err := a.Scan()
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if len(result.Files) != 3 {
			t.Fatalf("got %d files, want 3", len(result.Files))
		}

		passes, err := a.History(0)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(passes) != 1 {
			t.Fatalf("got %d passes, want 1", len(passes))
		}

		p := passes[0]
		if p.ScanID != "id-1" {
			t.Errorf("ScanID = %s, want id-1", p.ScanID)
		}
		if p.FileCount != 3 || p.SkippedCount != 1 {
			t.Errorf("counts = %d files / %d skipped, want 3/1", p.FileCount, p.SkippedCount)
		}
		// Only the 0.75 file reaches the flag threshold.
		if p.FlaggedCount != 1 {
			t.Errorf("FlaggedCount = %d, want 1", p.FlaggedCount)
		}
		if p.MeanScore != 0.5 {
			t.Errorf("MeanScore = %v, want 0.5", p.MeanScore)
		}
		if !p.StateSaved {
			t.Error("StateSaved = false, want true")
		}
	})

	t.Run("history failure does not fail the scan", func(t *testing.T) {
		a, fsmgr := newTestApp(t, triage.NopScorer{})

		fsmgr.AddDirectory("/desk")
		fsmgr.AddFile(triage.FileMetadata{Path: "/desk/a.txt"})

		// A closed history DB makes every RecordPass fail.
		if err := a.history.Close(); err != nil {
			t.Fatalf("closing history: %v", err)
		}

		result, err := a.Scan()
		if err != nil {
			t.Fatalf("Scan() error = %v, want history failure absorbed", err)
		}
		if len(result.Files) != 1 {
			t.Errorf("got %d files, want 1", len(result.Files))
		}
	})

	t.Run("state-save failure is recorded on the pass", func(t *testing.T) {
		a, fsmgr := newTestApp(t, triage.NopScorer{})

		// Point the tracker inside a regular file so Save fails.
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatalf("writing blocker: %v", err)
		}
		tracker := state.NewTrackingStore(filepath.Join(blocker, "file_state.json"))
		a.tracker = tracker
		a.service = triage.NewTriageService(tracker, fsmgr, triage.NopScorer{}, a.logger, a.clock)

		fsmgr.AddDirectory("/desk")
		fsmgr.AddFile(triage.FileMetadata{Path: "/desk/a.txt"})

		result, err := a.Scan()
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		if result.SaveErr == nil {
			t.Fatal("expected SaveErr to be set")
		}

		passes, err := a.History(0)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(passes) != 1 || passes[0].StateSaved {
			t.Errorf("passes = %+v, want one pass with StateSaved false", passes)
		}
	})
}
