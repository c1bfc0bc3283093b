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

// Package jobstore implements JobStore (spec.md §4.14): an in-memory
// async submit/poll registry over a single mutex, with copy-on-read
// snapshots so Status never blocks on an in-flight job.
package jobstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
)

// Status is a job's lifecycle state. A job's status progresses
// pending -> running -> (complete|error) with no regressions
// (spec.md §8's job-monotonicity property).
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Job is one submitted question and its current lifecycle state.
type Job struct {
	ID          string
	Question    string
	Status      Status
	Answer      string
	Err         error
	SubmittedAt time.Time
	FinishedAt  time.Time
}

// NotFoundError is returned by Status for an unknown job id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("jobstore: job %q not found", e.ID)
}

// Runner executes one job's question end to end (QueryEngine.Run).
type Runner func(ctx context.Context, question string) (string, error)

// Store is the in-memory job registry.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job

	run      Runner
	deadline time.Duration
	metrics  *telemetry.Metrics
}

// New builds a Store. run executes a submitted job's question; deadline
// bounds how long a job may stay running before it is cancelled with
// DeadlineExceeded (spec.md §4.13). metrics may be nil.
func New(run Runner, deadline time.Duration, metrics *telemetry.Metrics) *Store {
	return &Store{jobs: make(map[string]*Job), run: run, deadline: deadline, metrics: metrics}
}

// Submit creates a pending job record, dispatches it on a background
// goroutine, and returns its id immediately (spec.md §4.14).
func (s *Store) Submit(question string) string {
	id := uuid.NewString()
	job := &Job{ID: id, Question: question, Status: StatusPending, SubmittedAt: time.Now()}

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	go s.execute(id, question)
	return id
}

// Status returns a copy-on-read snapshot of the job record, or
// NotFoundError for an unknown id.
func (s *Store) Status(id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, &NotFoundError{ID: id}
	}
	return *job, nil
}

func (s *Store) execute(id, question string) {
	started := time.Now()
	s.setStatus(id, StatusRunning, "", nil)

	ctx := context.Background()
	var cancel context.CancelFunc
	if s.deadline > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}

	answer, err := s.run(ctx, question)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("jobstore: DeadlineExceeded: %w", err)
		}
		s.setStatus(id, StatusError, "", err)
		s.metrics.RecordJob(string(StatusError), time.Since(started))
		return
	}
	s.setStatus(id, StatusComplete, answer, nil)
	s.metrics.RecordJob(string(StatusComplete), time.Since(started))
}

func (s *Store) setStatus(id string, status Status, answer string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	if answer != "" {
		job.Answer = answer
	}
	job.Err = err
	if status == StatusComplete || status == StatusError {
		job.FinishedAt = time.Now()
	}
}
