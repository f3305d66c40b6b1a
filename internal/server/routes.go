package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tidy-go/internal/autorun"
	"tidy-go/internal/triage"
)

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Scan()
	if err != nil {
		// Directory-level failure: no partial result exists. The UI
		// distinguishes this from an empty directory by the error field.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	files := result.Files
	if files == nil {
		files = []triage.ScoredFileView{}
	}

	resp := map[string]any{
		"files":       files,
		"skipped":     result.Skipped,
		"started_at":  result.StartedAt,
		"finished_at": result.FinishedAt,
	}
	if result.SaveErr != nil {
		resp["save_error"] = result.SaveErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// fileFieldRequest carries a label or category edit. A JSON null (or
// omitted) value clears the field.
type fileFieldRequest struct {
	Path     string  `json:"path"`
	Label    *string `json:"label"`
	Category *string `json:"category"`
}

func (s *Server) handleSetLabel(w http.ResponseWriter, r *http.Request) {
	var req fileFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path required")
		return
	}

	if err := s.engine.SetLabel(req.Path, req.Label); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req fileFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path required")
		return
	}

	if err := s.engine.SetCategory(req.Path, req.Category); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.engine.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	passes, err := s.engine.History(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type passView struct {
		ScanID       string  `json:"scan_id"`
		StartedAt    string  `json:"started_at"`
		FinishedAt   string  `json:"finished_at"`
		FileCount    int     `json:"file_count"`
		SkippedCount int     `json:"skipped_count"`
		FlaggedCount int     `json:"flagged_count"`
		MeanScore    float64 `json:"mean_score"`
		StateSaved   bool    `json:"state_saved"`
	}

	views := make([]passView, 0, len(passes))
	for _, p := range passes {
		views = append(views, passView{
			ScanID:       p.ScanID,
			StartedAt:    p.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			FinishedAt:   p.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
			FileCount:    p.FileCount,
			SkippedCount: p.SkippedCount,
			FlaggedCount: p.FlaggedCount,
			MeanScore:    p.MeanScore,
			StateSaved:   p.StateSaved,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"passes": views})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.HistoryStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_passes": stats.TotalPasses,
		"last_scan_at": stats.LastScanAt,
		"mean_flagged": stats.MeanFlagged,
		"peak_flagged": stats.PeakFlagged,
	})
}

func (s *Server) handleAutorunStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"enabled": autorun.IsEnabled()})
}

func (s *Server) handleAutorunToggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// The status string is opaque display text; the engine does not depend
	// on the outcome.
	var status string
	if req.Enabled {
		status = autorun.Enable(s.engine.AutorunTarget())
	} else {
		status = autorun.Disable()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
