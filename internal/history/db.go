// Package history keeps a per-pass log of scans in SQLite so the UI can
// chart triage activity over time. History is derived data: a write failure
// here is reported but never fails the scan that produced it.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tidy-go/internal/history/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ScanPass is one recorded scan of the watched directory.
type ScanPass struct {
	ID           int64
	ScanID       string // UUID assigned by the app layer
	StartedAt    time.Time
	FinishedAt   time.Time
	FileCount    int
	SkippedCount int
	FlaggedCount int // files with trash_score >= FlagThreshold
	MeanScore    float64
	StateSaved   bool // whether the tracking store persisted after the pass
}

// FlagThreshold is the trash score at or above which a file counts as
// flagged in scan-pass aggregates.
const FlagThreshold = 0.6

// Stats aggregates all recorded passes.
type Stats struct {
	TotalPasses int
	LastScanAt  time.Time
	MeanFlagged float64
	PeakFlagged int
}

// DB wraps the SQLite connection holding scan history.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the scan-history database at the given path,
// creating the containing directory and running migrations.
// path may be ":memory:" for tests.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if path == ":memory:" {
		// Every pool connection to ":memory:" is a separate database;
		// a single connection keeps the schema visible.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &DB{db: db, path: path}, nil
}

// Path returns the database file location.
func (d *DB) Path() string { return d.path }

// RecordPass inserts one scan pass and fills in its auto-increment ID.
func (d *DB) RecordPass(p *ScanPass) error {
	res, err := d.db.Exec(`
		INSERT INTO scan_passes
			(scan_id, started_at, finished_at, file_count, skipped_count, flagged_count, mean_score, state_saved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ScanID, p.StartedAt, p.FinishedAt, p.FileCount, p.SkippedCount, p.FlaggedCount, p.MeanScore, boolToInt(p.StateSaved),
	)
	if err != nil {
		return fmt.Errorf("inserting scan pass: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading scan pass id: %w", err)
	}
	p.ID = id
	return nil
}

// ListPasses returns the most recent passes, newest first.
func (d *DB) ListPasses(limit int) ([]*ScanPass, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT id, scan_id, started_at, finished_at, file_count, skipped_count, flagged_count, mean_score, state_saved
		FROM scan_passes
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scan passes: %w", err)
	}
	defer rows.Close()

	var passes []*ScanPass
	for rows.Next() {
		var p ScanPass
		var saved int
		if err := rows.Scan(&p.ID, &p.ScanID, &p.StartedAt, &p.FinishedAt,
			&p.FileCount, &p.SkippedCount, &p.FlaggedCount, &p.MeanScore, &saved); err != nil {
			return nil, fmt.Errorf("scanning pass row: %w", err)
		}
		p.StateSaved = saved != 0
		passes = append(passes, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan passes: %w", err)
	}
	return passes, nil
}

// GetStats aggregates all recorded passes. An empty history yields zero
// values, not an error.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := d.db.QueryRow(`
		SELECT COUNT(*), COALESCE(AVG(flagged_count), 0), COALESCE(MAX(flagged_count), 0)
		FROM scan_passes`).Scan(&stats.TotalPasses, &stats.MeanFlagged, &stats.PeakFlagged)
	if err != nil {
		return nil, fmt.Errorf("aggregating scan passes: %w", err)
	}

	var last time.Time
	err = d.db.QueryRow(`
		SELECT started_at FROM scan_passes ORDER BY started_at DESC LIMIT 1`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading last scan time: %w", err)
	}
	stats.LastScanAt = last

	return stats, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
