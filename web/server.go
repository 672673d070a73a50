// Package web exposes the solver over a small JSON API: status polling,
// start/stop, configuration updates and checkpoint triggers. It is a
// collaborator of the engine, not part of it; everything here goes
// through the solver's public interface.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/ecdlp/kangaroo"
)

// historyCap bounds the in-memory stats history ring.
const historyCap = 360

// Config is the run configuration the API starts the solver with.
// Fields may be replaced through POST /api/config while stopped.
type Config struct {
	PubKey         string `json:"pubkey"`
	RangeStart     string `json:"range_start"`
	RangeEnd       string `json:"range_end"`
	Threads        int    `json:"threads"`
	DPBits         int    `json:"dp_bits"`
	CheckpointPath string `json:"checkpoint_path"`
}

// Server routes JSON requests to a solver.
type Server struct {
	solver *kangaroo.Solver

	mu      sync.Mutex
	cfg     Config
	history []sample
}

type sample struct {
	Time  int64          `json:"time"`
	Stats kangaroo.Stats `json:"stats"`
}

// NewServer wraps solver with the API using cfg as the initial run
// configuration.
func NewServer(solver *kangaroo.Solver, cfg Config) *Server {
	return &Server{solver: solver, cfg: cfg}
}

// Handler returns the CORS-wrapped route table.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/api/status", s.status)
	router.POST("/api/start", s.start)
	router.POST("/api/stop", s.stop)
	router.GET("/api/config", s.getConfig)
	router.POST("/api/config", s.setConfig)
	router.POST("/api/checkpoint/save", s.saveCheckpoint)
	router.POST("/api/checkpoint/load", s.loadCheckpoint)
	router.GET("/api/history", s.getHistory)
	return cors.Default().Handler(router)
}

// ListenAndServe serves the API on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Info("Web control surface listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Response encoding failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	st := s.solver.Stats()
	s.mu.Lock()
	s.history = append(s.history, sample{Time: time.Now().Unix(), Stats: st})
	if len(s.history) > historyCap {
		s.history = s.history[len(s.history)-historyCap:]
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"running": s.solver.IsRunning(),
		"stats":   st,
	})
}

// start accepts an optional JSON body overriding the stored config,
// initializes the solver and spawns the workers.
func (s *Server) start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if r.Body != nil {
		var override Config
		if err := json.NewDecoder(r.Body).Decode(&override); err == nil {
			cfg = merged(cfg, override)
		}
	}

	if err := s.solver.Initialize(cfg.PubKey, cfg.RangeStart, cfg.RangeEnd, cfg.Threads, cfg.DPBits); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, kangaroo.ErrAlreadyRunning) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	if err := s.solver.Start(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func merged(base, override Config) Config {
	if override.PubKey != "" {
		base.PubKey = override.PubKey
	}
	if override.RangeStart != "" {
		base.RangeStart = override.RangeStart
	}
	if override.RangeEnd != "" {
		base.RangeEnd = override.RangeEnd
	}
	if override.Threads != 0 {
		base.Threads = override.Threads
	}
	if override.DPBits != 0 {
		base.DPBits = override.DPBits
	}
	if override.CheckpointPath != "" {
		base.CheckpointPath = override.CheckpointPath
	}
	return base
}

func (s *Server) stop(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.solver.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

func (s *Server) getConfig(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) setConfig(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.solver.IsRunning() {
		writeError(w, http.StatusConflict, "stop the solver before reconfiguring")
		return
	}
	var override Config
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		writeError(w, http.StatusBadRequest, "bad config body: "+err.Error())
		return
	}
	s.mu.Lock()
	s.cfg = merged(s.cfg, override)
	cfg := s.cfg
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cfg)
}

type checkpointRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) checkpointPath(r *http.Request) string {
	var req checkpointRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Filename != "" {
		return req.Filename
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.CheckpointPath
}

func (s *Server) saveCheckpoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	path := s.checkpointPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "no checkpoint path configured")
		return
	}
	if err := s.solver.SaveCheckpoint(path); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "path": path})
}

func (s *Server) loadCheckpoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	path := s.checkpointPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "no checkpoint path configured")
		return
	}
	if err := s.solver.LoadCheckpoint(path); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "path": path})
}

func (s *Server) getHistory(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	out := make([]sample, len(s.history))
	copy(out, s.history)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}
