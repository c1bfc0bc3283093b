// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpapi implements the external interfaces of spec.md §6: job
// submission, job status polling, health, and metrics. Typed errors
// from the core are mapped to HTTP status codes only at this boundary
// (spec.md §7's propagation policy); the core itself never imports
// net/http.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kadirpekel/ledgerlens/pkg/jobstore"
	"github.com/kadirpekel/ledgerlens/pkg/llm"
	"github.com/kadirpekel/ledgerlens/pkg/processor"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
)

const (
	minQuestionLen = 3
	maxQuestionLen = 500
)

// Ready reports whether the core is initialized enough to accept jobs:
// indices loaded and the LLM client constructed (spec.md §6's health
// contract). Checked on every submit and on /health.
type Ready func() bool

// Server wires JobStore behind the HTTP contract of spec.md §6.
type Server struct {
	jobs    *jobstore.Store
	ready   Ready
	gate    *ratelimit.Gate
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New builds a Server. gate and metrics may be nil; a nil gate never
// rejects submissions for saturation.
func New(jobs *jobstore.Store, ready Ready, gate *ratelimit.Gate, metrics *telemetry.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{jobs: jobs, ready: ready, gate: gate, metrics: metrics, logger: logger}
}

// Routes builds the chi router for the external interface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequest)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/query", s.handleSubmit)
	r.Get("/query/{job_id}", s.handleStatus)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

type submitRequest struct {
	Question  string `json:"question"`
	MaxLength int    `json:"max_length,omitempty"`
}

type submitResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil && !s.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "indices unavailable"})
		return
	}
	if s.gate != nil && s.gate.Full() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded, try again later"})
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if len(req.Question) < minQuestionLen || len(req.Question) > maxQuestionLen {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "question must be between 3 and 500 characters",
		})
		return
	}

	id := s.jobs.Submit(req.Question)
	writeJSON(w, http.StatusOK, submitResponse{JobID: id, Status: string(jobstore.StatusPending), Message: "job accepted"})
}

type statusResponse struct {
	JobID   string  `json:"job_id"`
	Status  string  `json:"status"`
	Answer  string  `json:"answer,omitempty"`
	Error   string  `json:"error,omitempty"`
	Elapsed float64 `json:"elapsed"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "job_id")
	job, err := s.jobs.Status(id)
	if err != nil {
		var notFound *jobstore.NotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	end := job.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}

	resp := statusResponse{
		JobID:   job.ID,
		Status:  string(job.Status),
		Answer:  job.Answer,
		Elapsed: end.Sub(job.SubmittedAt).Seconds(),
	}
	if job.Err != nil {
		resp.Error = userFacingMessage(job.Err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil && !s.ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userFacingMessage sanitizes an internal error into the stable,
// minimal string a client sees (spec.md §7: "the user sees a stable,
// minimal message and the job_id for correlation"). The full chain is
// already in the server logs via slog at the point the job errored.
func userFacingMessage(err error) string {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		switch llmErr.Kind {
		case llm.InvalidRequest:
			return "the request could not be processed"
		case llm.AuthFailure:
			return "service unavailable"
		default:
			return "the question could not be answered"
		}
	}
	if errors.Is(err, processor.ErrProcessingFailed) {
		return "the question could not be answered"
	}
	return "the question could not be answered"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
