package server_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tidy-go/internal/autorun"
	"tidy-go/internal/history"
	"tidy-go/internal/server"
	"tidy-go/internal/state"
	"tidy-go/internal/triage"
)

// stubEngine implements server.Engine with canned responses.
type stubEngine struct {
	scanResult *triage.ScanResult
	scanErr    error

	labelPath string
	labelVal  *string
	labelErr  error

	categoryPath string
	categoryVal  *string

	summary state.ProfileSummary
	passes  []*history.ScanPass
	stats   *history.Stats
}

func (e *stubEngine) Scan() (*triage.ScanResult, error) {
	return e.scanResult, e.scanErr
}

func (e *stubEngine) SetLabel(path string, label *string) error {
	e.labelPath = path
	e.labelVal = label
	return e.labelErr
}

func (e *stubEngine) SetCategory(path string, category *string) error {
	e.categoryPath = path
	e.categoryVal = category
	return nil
}

func (e *stubEngine) Summary() (state.ProfileSummary, error) {
	return e.summary, nil
}

func (e *stubEngine) History(limit int) ([]*history.ScanPass, error) {
	if limit < len(e.passes) {
		return e.passes[:limit], nil
	}
	return e.passes, nil
}

func (e *stubEngine) HistoryStats() (*history.Stats, error) {
	if e.stats == nil {
		return &history.Stats{}, nil
	}
	return e.stats, nil
}

func (e *stubEngine) AutorunTarget() autorun.Target {
	return autorun.Target{Command: "/usr/bin/tidy", Args: "serve"}
}

func doRequest(t *testing.T, engine server.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := server.New(engine, "test")
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding response body: %v\nbody: %s", err, rec.Body.String())
	}
	return m
}

func TestHealthRoute(t *testing.T) {
	t.Parallel()
	rec := doRequest(t, &stubEngine{}, http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestScanRoute(t *testing.T) {
	t.Run("returns scored files", func(t *testing.T) {
		t.Parallel()
		score := 0.95
		engine := &stubEngine{
			scanResult: &triage.ScanResult{
				Files: []triage.ScoredFileView{{
					Name:         "junk.tmp",
					Path:         "/desk/junk.tmp",
					TrashScore:   score,
					TrashReasons: []string{"temporary_extension:.tmp"},
				}},
				Skipped:    1,
				StartedAt:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
				FinishedAt: time.Date(2025, 6, 15, 10, 30, 1, 0, time.UTC),
			},
		}

		rec := doRequest(t, engine, http.MethodPost, "/api/scan", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		files, ok := body["files"].([]any)
		if !ok || len(files) != 1 {
			t.Fatalf("files = %v, want one entry", body["files"])
		}
		f := files[0].(map[string]any)
		if f["trash_score"] != score {
			t.Errorf("trash_score = %v, want %v", f["trash_score"], score)
		}
		if body["skipped"] != float64(1) {
			t.Errorf("skipped = %v, want 1", body["skipped"])
		}
		if _, present := body["save_error"]; present {
			t.Error("save_error present on a clean scan")
		}
	})

	t.Run("empty directory yields an empty array, not null", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{scanResult: &triage.ScanResult{}}

		rec := doRequest(t, engine, http.MethodPost, "/api/scan", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"files":[]`) {
			t.Errorf("body = %s, want empty files array", rec.Body.String())
		}
	})

	t.Run("save failure is surfaced alongside the result", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{
			scanResult: &triage.ScanResult{SaveErr: errors.New("disk full")},
		}

		rec := doRequest(t, engine, http.MethodPost, "/api/scan", "")
		body := decodeBody(t, rec)
		if body["save_error"] != "disk full" {
			t.Errorf("save_error = %v, want disk full", body["save_error"])
		}
	})

	t.Run("scan failure maps to 500", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{scanErr: errors.New("not a directory")}

		rec := doRequest(t, engine, http.MethodPost, "/api/scan", "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestLabelRoute(t *testing.T) {
	t.Run("sets the label", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{}

		rec := doRequest(t, engine, http.MethodPost, "/api/files/label",
			`{"path":"/desk/a.txt","label":"pinned"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
		}
		if engine.labelPath != "/desk/a.txt" {
			t.Errorf("path = %s", engine.labelPath)
		}
		if engine.labelVal == nil || *engine.labelVal != "pinned" {
			t.Errorf("label = %v, want pinned", engine.labelVal)
		}
	})

	t.Run("null label clears", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{labelVal: new(string)}

		rec := doRequest(t, engine, http.MethodPost, "/api/files/label",
			`{"path":"/desk/a.txt","label":null}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if engine.labelVal != nil {
			t.Errorf("label = %v, want nil", engine.labelVal)
		}
	})

	t.Run("missing path is a 400", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, &stubEngine{}, http.MethodPost, "/api/files/label",
			`{"label":"trash"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed json is a 400", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, &stubEngine{}, http.MethodPost, "/api/files/label", `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("engine failure maps to 500", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{labelErr: errors.New("disk full")}

		rec := doRequest(t, engine, http.MethodPost, "/api/files/label",
			`{"path":"/desk/a.txt","label":"trash"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestCategoryRoute(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{}

	rec := doRequest(t, engine, http.MethodPost, "/api/files/category",
		`{"path":"/desk/a.txt","category":"work"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if engine.categoryPath != "/desk/a.txt" {
		t.Errorf("path = %s", engine.categoryPath)
	}
	if engine.categoryVal == nil || *engine.categoryVal != "work" {
		t.Errorf("category = %v, want work", engine.categoryVal)
	}
}

func TestSummaryRoute(t *testing.T) {
	t.Parallel()
	top := "trash"
	engine := &stubEngine{
		summary: state.ProfileSummary{
			Version:        1,
			TotalRecords:   3,
			LabeledRecords: 2,
			Labels:         map[string]int{"trash": 2},
			Categories:     map[string]int{},
			TopLabel:       &top,
		},
	}

	rec := doRequest(t, engine, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_records"] != float64(3) {
		t.Errorf("total_records = %v, want 3", body["total_records"])
	}
	if body["top_label"] != "trash" {
		t.Errorf("top_label = %v, want trash", body["top_label"])
	}
}

func TestHistoryRoute(t *testing.T) {
	t.Run("lists passes with stable timestamps", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{
			passes: []*history.ScanPass{{
				ScanID:     "scan-a",
				StartedAt:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
				FinishedAt: time.Date(2025, 6, 15, 10, 30, 2, 0, time.UTC),
				FileCount:  7,
				StateSaved: true,
			}},
		}

		rec := doRequest(t, engine, http.MethodGet, "/api/history", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		passes := body["passes"].([]any)
		if len(passes) != 1 {
			t.Fatalf("passes = %v, want one", body["passes"])
		}
		p := passes[0].(map[string]any)
		if p["started_at"] != "2025-06-15T10:30:00Z" {
			t.Errorf("started_at = %v", p["started_at"])
		}
		if p["file_count"] != float64(7) {
			t.Errorf("file_count = %v, want 7", p["file_count"])
		}
	})

	t.Run("invalid limit is a 400", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, &stubEngine{}, http.MethodGet, "/api/history?limit=zero", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("limit trims the list", func(t *testing.T) {
		t.Parallel()
		engine := &stubEngine{
			passes: []*history.ScanPass{{ScanID: "a"}, {ScanID: "b"}, {ScanID: "c"}},
		}

		rec := doRequest(t, engine, http.MethodGet, "/api/history?limit=2", "")
		body := decodeBody(t, rec)
		if got := len(body["passes"].([]any)); got != 2 {
			t.Errorf("got %d passes, want 2", got)
		}
	})
}

func TestStatsRoute(t *testing.T) {
	t.Parallel()
	engine := &stubEngine{
		stats: &history.Stats{TotalPasses: 9, MeanFlagged: 2.5, PeakFlagged: 6},
	}

	rec := doRequest(t, engine, http.MethodGet, "/api/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["total_passes"] != float64(9) {
		t.Errorf("total_passes = %v, want 9", body["total_passes"])
	}
	if body["peak_flagged"] != float64(6) {
		t.Errorf("peak_flagged = %v, want 6", body["peak_flagged"])
	}
}

func TestAutorunRoutes(t *testing.T) {
	t.Run("status reports enabled flag", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		rec := doRequest(t, &stubEngine{}, http.MethodGet, "/api/autorun", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["enabled"] != false {
			t.Errorf("enabled = %v, want false in a fresh config dir", body["enabled"])
		}
	})

	t.Run("toggle rejects malformed json", func(t *testing.T) {
		rec := doRequest(t, &stubEngine{}, http.MethodPost, "/api/autorun", `{`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
