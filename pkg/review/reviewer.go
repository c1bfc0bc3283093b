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

// Package review implements AnswerReviewer (spec.md §4.12): a bounded
// loop that checks a draft narrative against the analytical framework's
// rules and issues targeted correction prompts until it passes or the
// iteration cap is reached.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
)

// Generator is the subset of llm.Client AnswerReviewer depends on.
type Generator interface {
	Generate(ctx context.Context, renderedPrompt string, maxOutputTokens int, temperature float64, deadline time.Time) (string, error)
}

// Config bounds the review loop.
type Config struct {
	MaxIterations   int
	MaxOutputTokens int
	Temperature     float64
}

// Reviewer drives AnswerReviewer's bounded correction loop.
type Reviewer struct {
	llm     Generator
	prompts *prompt.Builder
	cfg     Config
	logger  *slog.Logger
}

// New builds a Reviewer.
func New(llm Generator, prompts *prompt.Builder, cfg Config, logger *slog.Logger) *Reviewer {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{llm: llm, prompts: prompts, cfg: cfg, logger: logger}
}

// Result is the outcome of a review pass.
type Result struct {
	Draft      string
	Iterations int
	Capped     bool
}

// Violations runs every predicate over draft and returns the combined
// list (spec.md §4.12's six checks).
func Violations(draft, question string, passages []corpus.RetrievedPassage) []string {
	var violations []string
	violations = append(violations, chronologyViolations(draft)...)
	violations = append(violations, subjectViolations(draft, question)...)
	violations = append(violations, forbiddenStringViolations(draft)...)
	violations = append(violations, typographyViolations(draft)...)
	violations = append(violations, attestationViolations(draft, passages)...)
	violations = append(violations, followupViolations(draft)...)
	return violations
}

// Review runs the bounded correction loop over draft. It terminates
// early once Violations returns empty, or after MaxIterations
// corrective calls, in which case Result.Capped is set but the last
// draft is still returned — AnswerReviewer's cap is a diagnostic
// signal, never a job failure (spec.md §4.12).
func (r *Reviewer) Review(ctx context.Context, question string, draft string, passages []corpus.RetrievedPassage, deadline time.Time) (Result, error) {
	current := draft
	for iteration := 0; iteration < r.cfg.MaxIterations; iteration++ {
		violations := Violations(current, question, passages)
		if len(violations) == 0 {
			return Result{Draft: current, Iterations: iteration}, nil
		}

		r.logger.Debug("answer review found violations", "iteration", iteration, "count", len(violations))
		correctionPrompt := r.prompts.Review(current, violations)
		corrected, err := r.llm.Generate(ctx, correctionPrompt, r.cfg.MaxOutputTokens, r.cfg.Temperature, deadline)
		if err != nil {
			return Result{Draft: current, Iterations: iteration}, err
		}
		current = corrected
	}

	r.logger.Warn("answer review capped without converging", "max_iterations", r.cfg.MaxIterations)
	return Result{Draft: current, Iterations: r.cfg.MaxIterations, Capped: true}, nil
}
