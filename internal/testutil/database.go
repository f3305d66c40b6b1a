package testutil

import (
	"testing"

	"tidy-go/internal/history"
)

// NewTestHistoryDB creates an in-memory scan-history database, closed
// automatically when the test ends.
func NewTestHistoryDB(t *testing.T) *history.DB {
	t.Helper()

	db, err := history.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test history db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
