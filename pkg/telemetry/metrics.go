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

// Package telemetry exposes the query engine's metrics over Prometheus
// (spec.md §4.13's job lifecycle, §4.9's rate gate, §4.12's review
// loop): retrieval composition, review-loop iteration counts, rate
// gate admission, and job outcomes.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every Prometheus collector ledgerlens registers. A nil
// *Metrics is valid and every Record/Observe/Inc method on it is a
// no-op, so instrumentation call sites never need a nil check of
// their own.
type Metrics struct {
	registry *prometheus.Registry

	retrievedPassages   *prometheus.HistogramVec
	retrievalDegraded   *prometheus.CounterVec
	queryExpansionTerms prometheus.Histogram

	reviewIterations prometheus.Histogram
	reviewCapped     prometheus.Counter

	rateGateWaitSeconds prometheus.Histogram
	rateGateAdmitted    prometheus.Counter

	jobsSubmitted *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec

	llmCalls   *prometheus.CounterVec
	llmRetries *prometheus.CounterVec
}

// New builds and registers every collector against a fresh registry.
func New(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	retrievedPassages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "retrieval",
		Name:      "passages_total",
		Help:      "Number of passages returned by Retriever, broken down by source tag (keyword, semantic, endnote).",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 200, 500},
	}, []string{"query_type", "source"})

	retrievalDegraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "retrieval",
		Name:      "degraded_total",
		Help:      "Count of retrievals that degraded to keyword-only because semantic search was unavailable.",
	}, []string{"reason"})

	queryExpansionTerms := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "retrieval",
		Name:      "expansion_terms",
		Help:      "Number of canonical terms a question expanded to before retrieval (spec.md §4.5's expand_for_search).",
		Buckets:   prometheus.LinearBuckets(0, 2, 10),
	})

	reviewIterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "review",
		Name:      "iterations",
		Help:      "Number of corrective review iterations a job needed before converging or being capped.",
		Buckets:   prometheus.LinearBuckets(0, 1, 6),
	})

	reviewCapped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "review",
		Name:      "capped_total",
		Help:      "Count of jobs whose review loop hit MAX_REVIEW_ITERATIONS without converging.",
	})

	rateGateWaitSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rate_gate",
		Name:      "wait_seconds",
		Help:      "Time an LLM call spent waiting on RateGate.Acquire.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	rateGateAdmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rate_gate",
		Name:      "admitted_total",
		Help:      "Count of requests admitted by RateGate.",
	})

	jobsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "job",
		Name:      "submitted_total",
		Help:      "Count of jobs submitted, by terminal status.",
	}, []string{"status"})

	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "job",
		Name:      "duration_seconds",
		Help:      "Job wall-clock duration from submit to terminal status.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"status"})

	llmCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "Count of LlmClient.Generate calls, by outcome kind.",
	}, []string{"kind"})

	llmRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "retries_total",
		Help:      "Count of LlmClient retries, by the error kind that triggered them.",
	}, []string{"kind"})

	m.registry.MustRegister(
		retrievedPassages, retrievalDegraded, queryExpansionTerms,
		reviewIterations, reviewCapped,
		rateGateWaitSeconds, rateGateAdmitted,
		jobsSubmitted, jobDuration,
		llmCalls, llmRetries,
	)

	m.retrievedPassages = retrievedPassages
	m.retrievalDegraded = retrievalDegraded
	m.queryExpansionTerms = queryExpansionTerms
	m.reviewIterations = reviewIterations
	m.reviewCapped = reviewCapped
	m.rateGateWaitSeconds = rateGateWaitSeconds
	m.rateGateAdmitted = rateGateAdmitted
	m.jobsSubmitted = jobsSubmitted
	m.jobDuration = jobDuration
	m.llmCalls = llmCalls
	m.llmRetries = llmRetries
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
