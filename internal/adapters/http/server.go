// Package http exposes the runner over a small JSON control API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/internal/runtime"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

// Controller defines the runner operations the API exposes.
type Controller interface {
	Start(ctx context.Context, cfg runtime.StartConfig) error
	Pause() error
	Resume() error
	Abort() error
	Snapshot() *domain.Run
}

// Server wires the controller into HTTP handlers.
type Server struct {
	controller Controller
	logger     *slog.Logger
}

type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the control API.
func NewHandler(controller Controller, opts ...Option) http.Handler {
	s := &Server{
		controller: controller,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/runs", s.startRun)
	r.Get("/runs/current", s.currentRun)
	r.Post("/runs/current/pause", s.pauseRun)
	r.Post("/runs/current/resume", s.resumeRun)
	r.Post("/runs/current/abort", s.abortRun)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

type startRequest struct {
	Start      string `json:"start"`
	Target     string `json:"target"`
	StepBudget int    `json:"step_budget,omitempty"`
	WallBudget string `json:"wall_budget,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// startRun handles POST /runs.
func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Start == "" || body.Target == "" {
		writeError(w, http.StatusBadRequest, "start and target are required")
		return
	}

	cfg := runtime.StartConfig{
		Start:      body.Start,
		Target:     body.Target,
		StepBudget: body.StepBudget,
	}
	if body.WallBudget != "" {
		d, err := time.ParseDuration(body.WallBudget)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid wall_budget: %v", err))
			return
		}
		cfg.WallBudget = d
	}

	if err := s.controller.Start(r.Context(), cfg); err != nil {
		switch {
		case errors.Is(err, domain.ErrRunActive):
			writeError(w, http.StatusConflict, "a run is already active")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			s.logger.Error("failed to start run", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, s.controller.Snapshot())
}

// currentRun handles GET /runs/current.
func (s *Server) currentRun(w http.ResponseWriter, _ *http.Request) {
	run := s.controller.Snapshot()
	if run == nil {
		writeError(w, http.StatusNotFound, "no run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) pauseRun(w http.ResponseWriter, _ *http.Request) {
	s.control(w, s.controller.Pause)
}

func (s *Server) resumeRun(w http.ResponseWriter, _ *http.Request) {
	s.control(w, s.controller.Resume)
}

func (s *Server) abortRun(w http.ResponseWriter, _ *http.Request) {
	s.control(w, s.controller.Abort)
}

func (s *Server) control(w http.ResponseWriter, op func() error) {
	if err := op(); err != nil {
		if errors.Is(err, domain.ErrNoRun) {
			writeError(w, http.StatusNotFound, "no run")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
