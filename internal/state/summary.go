package state

import "sort"

// ProfileSummary aggregates the user-owned fields across all tracking
// records: how much of the surface has been labeled/categorized and which
// values dominate.
type ProfileSummary struct {
	Version            int            `json:"version"`
	TotalRecords       int            `json:"total_records"`
	LabeledRecords     int            `json:"labeled_records"`
	CategorizedRecords int            `json:"categorized_records"`
	Labels             map[string]int `json:"labels"`
	Categories         map[string]int `json:"categories"`
	TopLabel           *string        `json:"top_label"`
	TopCategory        *string        `json:"top_category"`
}

// ProfileSummary builds the aggregate view of the store.
// Ties for the most frequent label or category are broken by sorting the
// tied names, so the summary is stable across runs even though map
// iteration order is not.
func (s *Store) ProfileSummary() ProfileSummary {
	summary := ProfileSummary{
		Version:    s.Version,
		Labels:     make(map[string]int),
		Categories: make(map[string]int),
	}

	for _, rec := range s.Files {
		if rec == nil {
			continue
		}
		summary.TotalRecords++

		if rec.Label != nil && *rec.Label != "" {
			summary.Labels[*rec.Label]++
			summary.LabeledRecords++
		}
		if rec.Category != nil && *rec.Category != "" {
			summary.Categories[*rec.Category]++
			summary.CategorizedRecords++
		}
	}

	summary.TopLabel = mostFrequent(summary.Labels)
	summary.TopCategory = mostFrequent(summary.Categories)
	return summary
}

// mostFrequent returns the key with the highest count, or nil for an empty
// table. Ties go to the lexicographically smallest key.
func mostFrequent(counts map[string]int) *string {
	if len(counts) == 0 {
		return nil
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return &best
}
