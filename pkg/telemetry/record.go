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

package telemetry

import (
	"time"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

// RecordRetrieval records how many passages a query type's retrieval
// returned, broken down by source tag so keyword, semantic, and
// endnote contributions are distinguishable in the exposition.
func (m *Metrics) RecordRetrieval(queryType corpus.QueryType, bySource map[corpus.SourceTag]int) {
	if m == nil {
		return
	}
	for source, count := range bySource {
		m.retrievedPassages.WithLabelValues(string(queryType), string(source)).Observe(float64(count))
	}
}

// RecordQueryExpansion records how many canonical terms a question
// expanded to via the identity hierarchy before retrieval.
func (m *Metrics) RecordQueryExpansion(termCount int) {
	if m == nil {
		return
	}
	m.queryExpansionTerms.Observe(float64(termCount))
}

// RecordRetrievalDegraded records a keyword-only degradation
// (spec.md §7's SearchUnavailable).
func (m *Metrics) RecordRetrievalDegraded(reason string) {
	if m == nil {
		return
	}
	m.retrievalDegraded.WithLabelValues(reason).Inc()
}

// RecordReview records a completed review loop's iteration count and
// whether it hit the cap (spec.md §4.12's ReviewCapped).
func (m *Metrics) RecordReview(iterations int, capped bool) {
	if m == nil {
		return
	}
	m.reviewIterations.Observe(float64(iterations))
	if capped {
		m.reviewCapped.Inc()
	}
}

// RecordRateGateWait records the time an LLM call waited on
// RateGate.Acquire before admission.
func (m *Metrics) RecordRateGateWait(wait time.Duration) {
	if m == nil {
		return
	}
	m.rateGateWaitSeconds.Observe(wait.Seconds())
	m.rateGateAdmitted.Inc()
}

// RecordJob records a job's terminal status and total duration.
func (m *Metrics) RecordJob(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobsSubmitted.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordLLMCall records one LlmClient.Generate outcome.
func (m *Metrics) RecordLLMCall(kind string) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(kind).Inc()
}

// RecordLLMRetry records one LlmClient retry, keyed by the error kind
// that triggered it.
func (m *Metrics) RecordLLMRetry(kind string) {
	if m == nil {
		return
	}
	m.llmRetries.WithLabelValues(kind).Inc()
}
