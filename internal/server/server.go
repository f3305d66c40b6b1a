// Package server exposes the triage engine to the desktop UI over a local
// HTTP API. The UI is an external collaborator: it renders file lists and
// forwards user actions; all decisions stay in the engine.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tidy-go/internal/autorun"
	"tidy-go/internal/history"
	"tidy-go/internal/state"
	"tidy-go/internal/triage"
)

// Engine is the boundary the server needs from the application layer.
type Engine interface {
	Scan() (*triage.ScanResult, error)
	SetLabel(path string, label *string) error
	SetCategory(path string, category *string) error
	Summary() (state.ProfileSummary, error)
	History(limit int) ([]*history.ScanPass, error)
	HistoryStats() (*history.Stats, error)
	AutorunTarget() autorun.Target
}

// Server is the tidy HTTP API server.
type Server struct {
	engine  Engine
	router  chi.Router
	version string
	started time.Time
}

// New creates a Server around the given engine.
func New(engine Engine, version string) *Server {
	s := &Server{
		engine:  engine,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/scan", s.handleScan)
		r.Post("/files/label", s.handleSetLabel)
		r.Post("/files/category", s.handleSetCategory)
		r.Get("/summary", s.handleSummary)
		r.Get("/history", s.handleHistory)
		r.Get("/stats", s.handleStats)
		r.Get("/autorun", s.handleAutorunStatus)
		r.Post("/autorun", s.handleAutorunToggle)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
