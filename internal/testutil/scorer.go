package testutil

import (
	"tidy-go/internal/state"
	"tidy-go/internal/triage"
)

// StubScorer returns whatever ScoreFn says, or (0, nil) when unset.
type StubScorer struct {
	ScoreFn func(meta triage.FileMetadata, rec *state.TrackingRecord) (float64, []string)
}

func (s *StubScorer) Score(meta triage.FileMetadata, rec *state.TrackingRecord) (float64, []string) {
	if s.ScoreFn == nil {
		return 0, nil
	}
	return s.ScoreFn(meta, rec)
}

// PanicScorer panics on every call, for exercising the scan path's
// scorer-failure recovery.
type PanicScorer struct{}

func (PanicScorer) Score(triage.FileMetadata, *state.TrackingRecord) (float64, []string) {
	panic("scorer exploded")
}
