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

package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/identity"
	"github.com/kadirpekel/ledgerlens/pkg/index"
	"github.com/kadirpekel/ledgerlens/pkg/processor"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
	"github.com/kadirpekel/ledgerlens/pkg/retriever"
	"github.com/kadirpekel/ledgerlens/pkg/review"
	"github.com/kadirpekel/ledgerlens/pkg/router"
	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
	"github.com/kadirpekel/ledgerlens/pkg/term"
)

type rec = struct {
	Text            string
	ApproxWordCount int
}

// stubLLM always returns a clean narrative that passes every review
// predicate, so tests exercise orchestration rather than the reviewer.
type stubLLM struct{}

func (stubLLM) Generate(_ context.Context, _ string, _ int, _ float64, _ time.Time) (string, error) {
	return "*Lehman* opened its first office in 1850.\n\nFollow-up questions:\n- What happened next?\n- Who led it?\n- How did rivals respond?\n", nil
}

func buildEngine(t *testing.T) *Engine {
	t.Helper()
	store := index.NewForTest(
		map[string][]string{
			"lehman": {"c1", "c2"},
		},
		map[string]rec{
			"c1": {Text: "Lehman opened its first office in 1850.", ApproxWordCount: 7},
			"c2": {Text: "By 1929 Lehman had become a major underwriter.", ApproxWordCount: 8},
		},
		nil, nil,
	)

	r := retriever.New(store, term.New(), identity.NewDefault(), nil, retriever.Config{KSem: 10, SparseThreshold: 1, MaxRetrieved: 50}, nil)
	rt := router.New(router.Config{LargeThreshold: 1000})

	gate := ratelimit.New(1000, 1_000_000)
	prompts := prompt.New()
	llm := stubLLM{}

	deps := processor.Deps{
		Gate: gate, LLM: llm, Prompts: prompts,
		Concurrency: 4, MaxWordsPerBatch: 500, MaxOutputTokens: 256, Temperature: 0.2,
	}
	period := processor.NewPeriodProcessor(deps)
	geo := processor.NewGeographicProcessor(deps)
	reviewer := review.New(llm, prompts, review.Config{MaxIterations: 3}, nil)

	return New(r, rt, period, geo, reviewer, llm, prompts, gate, Config{Deadline: 5 * time.Second, MaxOutputTokens: 256, Temperature: 0.2}, nil, nil, nil)
}

func TestEngineRunProducesReviewedNarrative(t *testing.T) {
	e := buildEngine(t)
	out, err := e.Run(context.Background(), "Tell me about Lehman")
	require.NoError(t, err)
	assert.Contains(t, out, "Lehman")
	assert.Contains(t, out, "Follow-up questions")
}

func TestEngineRunRecordsTelemetryWithoutPanicking(t *testing.T) {
	e := buildEngine(t)
	e.metrics = telemetry.New("test")
	_, err := e.Run(context.Background(), "Tell me about Lehman")
	require.NoError(t, err)
}

func TestBySourceTagCountsEachTagIndependently(t *testing.T) {
	passages := []corpus.RetrievedPassage{
		{ChunkID: "c1", SourceTag: corpus.SourceKeyword},
		{ChunkID: "c2", SourceTag: corpus.SourceKeyword},
		{ChunkID: "c3", SourceTag: corpus.SourceSemantic},
		{ChunkID: "c4", SourceTag: corpus.SourceEndnote},
	}
	counts := bySourceTag(passages)
	assert.Equal(t, 2, counts[corpus.SourceKeyword])
	assert.Equal(t, 1, counts[corpus.SourceSemantic])
	assert.Equal(t, 1, counts[corpus.SourceEndnote])
}
