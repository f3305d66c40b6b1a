package state

import (
	"encoding/json"
	"time"
)

// Label values set by explicit user action. The store accepts any string;
// these are the values the UI actually sends.
const (
	LabelPinned   = "pinned"
	LabelKeep     = "keep"
	LabelTrash    = "trash"
	LabelOrganize = "organize"
)

// TrackingRecord is the persisted observation history for one path.
// Label and Category are user-owned: the scan path reads them but never
// writes them.
type TrackingRecord struct {
	FirstSeenAt  *time.Time `json:"first_seen_at"`
	LastSeenAt   *time.Time `json:"last_seen_at"`
	SeenCount    int        `json:"seen_count"`
	LastModified *time.Time `json:"last_modified"`
	SizeBytes    *int64     `json:"size_bytes"`
	Label        *string    `json:"label"`
	Category     *string    `json:"category"`
}

// UnmarshalJSON decodes a record permissively: unknown fields are ignored
// and a field of the wrong shape falls back to its zero value instead of
// failing the whole record. Bad persisted state must never fail a scan.
func (r *TrackingRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object at all; leave the record zero-valued.
		return nil
	}

	r.FirstSeenAt = decodeTime(fields["first_seen_at"])
	r.LastSeenAt = decodeTime(fields["last_seen_at"])
	r.LastModified = decodeTime(fields["last_modified"])

	if raw, ok := fields["seen_count"]; ok {
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			r.SeenCount = n
		}
	}
	if raw, ok := fields["size_bytes"]; ok {
		// Decoding into a pointer keeps a persisted null absent instead of
		// collapsing it to zero.
		var n *int64
		if err := json.Unmarshal(raw, &n); err == nil {
			r.SizeBytes = n
		}
	}
	r.Label = decodeString(fields["label"])
	r.Category = decodeString(fields["category"])
	return nil
}

// decodeTime parses an RFC 3339 / ISO-8601 timestamp field.
// Missing, null, or unparsable values yield nil.
func decodeTime(raw json.RawMessage) *time.Time {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// decodeString decodes an optional string field. Missing, null, or
// wrong-typed values yield nil.
func decodeString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}
