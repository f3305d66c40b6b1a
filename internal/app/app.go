package app

import (
	"fmt"
	"os"

	"tidy-go/internal/autorun"
	"tidy-go/internal/config"
	"tidy-go/internal/fs"
	"tidy-go/internal/history"
	"tidy-go/internal/state"
	"tidy-go/internal/triage"
)

// TidyApp is the application layer between the CLI (and HTTP server) and
// the TriageService. It constructs all dependencies from config and manages
// the history DB lifecycle on Close.
type TidyApp struct {
	cfg     *config.Config
	tracker *state.TrackingStore
	history *history.DB
	service *triage.TriageService
	clock   triage.Clock
	idgen   triage.IDGenerator
	logger  triage.Logger
	logFile *os.File
}

// NewTidyApp creates a fully wired TidyApp from the given config.
// operation identifies the CLI command being run (e.g. "Scan", "SetLabel")
// and tags every log line. The caller must call Close when done.
func NewTidyApp(cfg *config.Config, operation string) (*TidyApp, error) {
	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)
	tracker := state.NewTrackingStore(cfg.StatePath)

	hist, err := history.NewFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening scan history: %w", err)
	}

	logger, logFile, err := newLogger(cfg.LogDir, operation)
	if err != nil {
		hist.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	clock := triage.RealClock{}
	adapted := &slogAdapter{l: logger}
	scorer := triage.NewHeuristicScorer(clock)
	svc := triage.NewTriageService(tracker, fsmgr, scorer, adapted, clock)

	return &TidyApp{
		cfg:     cfg,
		tracker: tracker,
		history: hist,
		service: svc,
		clock:   clock,
		idgen:   triage.UUIDGenerator{},
		logger:  adapted,
		logFile: logFile,
	}, nil
}

// Config returns the active configuration.
func (a *TidyApp) Config() *config.Config { return a.cfg }

// Scan runs one triage pass over the configured watched directory and
// records the pass in the scan history. A history-write failure is logged
// and does not fail the scan.
func (a *TidyApp) Scan() (*triage.ScanResult, error) {
	result, err := a.service.Scan(a.cfg.WatchDir)
	if err != nil {
		return nil, err
	}

	pass := &history.ScanPass{
		ScanID:       a.idgen.New(),
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
		FileCount:    len(result.Files),
		SkippedCount: result.Skipped,
		StateSaved:   result.SaveErr == nil,
	}
	var total float64
	for _, f := range result.Files {
		total += f.TrashScore
		if f.TrashScore >= history.FlagThreshold {
			pass.FlaggedCount++
		}
	}
	if len(result.Files) > 0 {
		pass.MeanScore = total / float64(len(result.Files))
	}

	if err := a.history.RecordPass(pass); err != nil {
		a.logger.Error("recording scan pass failed", "scan_id", pass.ScanID, "error", err)
	}

	return result, nil
}

// SetLabel assigns (or clears, with nil) the user label for path.
func (a *TidyApp) SetLabel(path string, label *string) error {
	return a.service.SetLabel(path, label)
}

// SetCategory assigns (or clears, with nil) the user category for path.
func (a *TidyApp) SetCategory(path string, category *string) error {
	return a.service.SetCategory(path, category)
}

// Summary returns the aggregate view of all tracking records.
func (a *TidyApp) Summary() (state.ProfileSummary, error) {
	return a.service.ProfileSummary(), nil
}

// History returns the most recent scan passes, newest first.
func (a *TidyApp) History(limit int) ([]*history.ScanPass, error) {
	return a.history.ListPasses(limit)
}

// HistoryStats aggregates all recorded scan passes.
func (a *TidyApp) HistoryStats() (*history.Stats, error) {
	return a.history.GetStats()
}

// AutorunTarget builds the launch-at-login target from config, defaulting
// to the current executable's serve mode when none is configured.
func (a *TidyApp) AutorunTarget() autorun.Target {
	t := autorun.Target{
		Command: a.cfg.Autorun.Command,
		Args:    a.cfg.Autorun.Args,
	}
	if t.Command == "" {
		if exe, err := os.Executable(); err == nil {
			t.Command = exe
			t.Args = "serve"
		}
	}
	return t
}

// Close releases all resources.
func (a *TidyApp) Close() error {
	var firstErr error

	if err := a.history.Close(); err != nil {
		firstErr = fmt.Errorf("closing scan history: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
