package triage

import (
	"fmt"
	"regexp"
	"time"

	"tidy-go/internal/state"
)

// Scorer estimates how likely a file is disposable clutter.
// Score returns a value in [0,1] and an ordered list of reason codes
// explaining every contribution. Implementations must be pure: no side
// effects, no store access beyond the passed-in record.
type Scorer interface {
	Score(meta FileMetadata, rec *state.TrackingRecord) (float64, []string)
}

// NopScorer is the always-available default used when scoring is not
// wanted: every file scores zero with no reasons.
type NopScorer struct{}

func (NopScorer) Score(FileMetadata, *state.TrackingRecord) (float64, []string) {
	return 0, nil
}

// Extension sets feeding the heuristic rules.
var (
	tempExts      = map[string]bool{".tmp": true, ".crdownload": true, ".part": true, ".log": true, ".dmp": true}
	archiveExts   = map[string]bool{".zip": true, ".rar": true, ".7z": true}
	installerExts = map[string]bool{".exe": true, ".msi": true}
)

// dupPatterns match filenames that look like stray copies or re-downloads.
var dupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d+\)`), // "report (1).docx"
	regexp.MustCompile(`(?i)\bcopy\b`),
	regexp.MustCompile(`(?i)\bfinal\b`),
	regexp.MustCompile(`(?i)\bnew\b`),
	regexp.MustCompile(`(?i)\bdownload\b`),
}

const largePayloadBytes = 500 * 1024 * 1024

// HeuristicScorer scores files with a fixed, ordered rule table.
// Rules are additive except two absolute overrides: a pinned/keep label
// zeroes the score outright, and a known-temporary extension returns 0.95
// without evaluating anything else. The reason list preserves the order in
// which rules fired so output is diffable across runs.
type HeuristicScorer struct {
	clock Clock
}

// NewHeuristicScorer creates a scorer that evaluates ages against the
// given clock.
func NewHeuristicScorer(clock Clock) *HeuristicScorer {
	return &HeuristicScorer{clock: clock}
}

func (h *HeuristicScorer) Score(meta FileMetadata, rec *state.TrackingRecord) (float64, []string) {
	if rec == nil {
		rec = &state.TrackingRecord{}
	}
	now := h.clock.Now().UTC()

	if rec.Label != nil && (*rec.Label == state.LabelPinned || *rec.Label == state.LabelKeep) {
		return 0, []string{"user_marked_important"}
	}

	if tempExts[meta.Ext] {
		return 0.95, []string{fmt.Sprintf("temporary_extension:%s", meta.Ext)}
	}

	var score float64
	var reasons []string

	daysMod := daysSince(now, &meta.LastModified)
	daysFirstSeen := daysSince(now, rec.FirstSeenAt)

	// Staleness tiers; only the highest matching tier applies.
	switch {
	case daysMod != nil && *daysMod > 180:
		score += 0.35
		reasons = append(reasons, fmt.Sprintf("not_modified_%dd", int(*daysMod)))
	case daysMod != nil && *daysMod > 90:
		score += 0.25
		reasons = append(reasons, fmt.Sprintf("not_modified_%dd", int(*daysMod)))
	case daysMod != nil && *daysMod > 30:
		score += 0.12
		reasons = append(reasons, fmt.Sprintf("not_modified_%dd", int(*daysMod)))
	}

	if daysFirstSeen != nil && *daysFirstSeen > 14 {
		score += 0.10
		reasons = append(reasons, fmt.Sprintf("on_desktop_%dd", int(*daysFirstSeen)))
	}

	if installerExts[meta.Ext] && daysMod != nil && *daysMod > 14 {
		score += 0.25
		reasons = append(reasons, "old_installer")
	}

	if archiveExts[meta.Ext] && daysMod != nil && *daysMod > 30 {
		score += 0.18
		reasons = append(reasons, "old_archive")
	}

	if matchesDupPattern(meta.Name) {
		score += 0.15
		reasons = append(reasons, "name_looks_like_duplicate")
	}

	if meta.SizeBytes > largePayloadBytes && (installerExts[meta.Ext] || archiveExts[meta.Ext]) {
		score += 0.10
		reasons = append(reasons, "very_large_old_payload")
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "no_strong_signals")
	}
	return score, reasons
}

// daysSince returns the fractional days between now and t, or nil when the
// timestamp is absent or zero-valued. Absent timestamps contribute nothing
// to the score.
func daysSince(now time.Time, t *time.Time) *float64 {
	if t == nil || t.IsZero() {
		return nil
	}
	days := now.Sub(t.UTC()).Hours() / 24
	return &days
}

func matchesDupPattern(name string) bool {
	for _, p := range dupPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}
