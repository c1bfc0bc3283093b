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

// Package engine implements QueryEngine (spec.md §4.13): the top-level
// orchestrator that turns one question into one final narrative by
// driving Retriever, ChunkProcessor, QueryRouter, the Period/Geographic
// processors (or a single direct LLM call for SMALL_TOPIC), and
// AnswerReviewer in sequence.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/processor"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
	"github.com/kadirpekel/ledgerlens/pkg/retriever"
	"github.com/kadirpekel/ledgerlens/pkg/review"
	"github.com/kadirpekel/ledgerlens/pkg/router"
	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
)

// Config bounds a single job's execution.
type Config struct {
	Deadline        time.Duration
	MaxOutputTokens int
	Temperature     float64
}

// Engine wires every query-time component into the single run
// operation of spec.md §4.13.
type Engine struct {
	retriever  *retriever.Retriever
	router     *router.Router
	period     *processor.PeriodProcessor
	geo        *processor.GeographicProcessor
	reviewer   *review.Reviewer
	llm        processor.Generator
	prompts    *prompt.Builder
	gate       *ratelimit.Gate
	cfg        Config
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	dedupCache *chunkproc.Cache
}

// New builds an Engine from its collaborators. metrics and dedupCache
// may be nil.
func New(
	r *retriever.Retriever,
	rt *router.Router,
	period *processor.PeriodProcessor,
	geo *processor.GeographicProcessor,
	reviewer *review.Reviewer,
	llm processor.Generator,
	prompts *prompt.Builder,
	gate *ratelimit.Gate,
	cfg Config,
	logger *slog.Logger,
	metrics *telemetry.Metrics,
	dedupCache *chunkproc.Cache,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		retriever:  r,
		router:     rt,
		period:     period,
		geo:        geo,
		reviewer:   reviewer,
		llm:        llm,
		prompts:    prompts,
		gate:       gate,
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		dedupCache: dedupCache,
	}
}

// Run executes the end-to-end job of spec.md §4.13: retrieve, process,
// route, execute the selected strategy, review, and return the final
// narrative.
func (e *Engine) Run(ctx context.Context, question string) (string, error) {
	deadline := time.Time{}
	if e.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Deadline)
		defer cancel()
		deadline = time.Now().Add(e.cfg.Deadline)
	}

	retrieval, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		return "", err
	}
	passages := chunkproc.DeduplicateFor(retrieval.Passages, question, e.dedupCache)

	queryType := e.router.Route(question, len(passages))
	e.logger.Info("routed query", "query_type", queryType, "retrieved", len(passages),
		"expanded_terms", retrieval.ExpandedTerms, "degraded", retrieval.Degraded)
	e.metrics.RecordRetrieval(queryType, bySourceTag(passages))
	e.metrics.RecordQueryExpansion(len(retrieval.ExpandedTerms))
	if retrieval.Degraded {
		e.metrics.RecordRetrievalDegraded("semantic_unavailable")
	}

	draft, err := e.executeStrategy(ctx, question, queryType, passages, deadline)
	if err != nil {
		return "", err
	}

	result, err := e.reviewer.Review(ctx, question, draft, passages, deadline)
	if err != nil {
		return "", err
	}
	e.metrics.RecordReview(result.Iterations, result.Capped)
	if result.Capped {
		e.logger.Warn("review capped", "question", question)
	}
	return result.Draft, nil
}

// bySourceTag tallies a retrieved passage set by how each passage
// entered the result, for the retrieval telemetry breakdown.
func bySourceTag(passages []corpus.RetrievedPassage) map[corpus.SourceTag]int {
	counts := make(map[corpus.SourceTag]int, 3)
	for _, p := range passages {
		counts[p.SourceTag]++
	}
	return counts
}

func (e *Engine) executeStrategy(ctx context.Context, question string, queryType corpus.QueryType, passages []corpus.RetrievedPassage, deadline time.Time) (string, error) {
	switch queryType {
	case corpus.QueryPeriodTopic:
		return e.period.Process(ctx, question, passages)
	case corpus.QueryGeoTopic:
		return e.geo.Process(ctx, question, passages, false)
	case corpus.QueryEvent:
		return e.geo.Process(ctx, question, passages, true)
	default:
		return e.directAnswer(ctx, question, passages, deadline)
	}
}

// directAnswer handles SMALL_TOPIC questions with a single narrative
// call over every retrieved passage, bypassing the fan-out processors.
func (e *Engine) directAnswer(ctx context.Context, question string, passages []corpus.RetrievedPassage, deadline time.Time) (string, error) {
	renderedPrompt := e.prompts.Narrative(question, passages)
	est := len(renderedPrompt)/4 + e.cfg.MaxOutputTokens
	handle, err := e.gate.Acquire(ctx, est)
	if err != nil {
		return "", err
	}
	out, err := e.llm.Generate(ctx, renderedPrompt, e.cfg.MaxOutputTokens, e.cfg.Temperature, deadline)
	if err != nil {
		handle.Release(0)
		return "", err
	}
	handle.Release(len(out)/4 + len(renderedPrompt)/4)
	return out, nil
}
