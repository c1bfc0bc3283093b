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

package processor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
)

// fakeGenerator echoes back the prompt, failing for any prompt
// containing one of FailOn's substrings.
type fakeGenerator struct {
	mu     sync.Mutex
	FailOn []string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, renderedPrompt string, _ int, _ float64, _ time.Time) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	for _, bad := range f.FailOn {
		if strings.Contains(renderedPrompt, bad) {
			return "", fmt.Errorf("fake generator: forced failure for %q", bad)
		}
	}
	return "draft:" + renderedPrompt, nil
}

func testDeps(gen Generator) Deps {
	return Deps{
		Gate:             ratelimit.New(1000, 1_000_000),
		LLM:              gen,
		Prompts:          prompt.New(),
		Concurrency:      4,
		MaxWordsPerBatch: 500,
		MaxOutputTokens:  256,
		Temperature:      0.2,
	}
}

func passage(chunkID, text string) corpus.RetrievedPassage {
	return corpus.RetrievedPassage{ChunkID: chunkID, Text: text, SourceTag: corpus.SourceKeyword}
}

func TestPeriodProcessorMergesAllPeriods(t *testing.T) {
	passages := []corpus.RetrievedPassage{
		passage("c1", "In 1875 the Vienna house opened its doors."),
		passage("c2", "By 1929 the firm had closed its Vienna branch."),
	}
	gen := &fakeGenerator{}
	p := NewPeriodProcessor(testDeps(gen))

	out, err := p.Process(context.Background(), "How did the Vienna branch evolve?", passages)
	require.NoError(t, err)
	assert.Contains(t, out, "draft:")
	assert.Greater(t, gen.calls, 0)
}

func TestGeographicProcessorToleratesOneFailure(t *testing.T) {
	passages := []corpus.RetrievedPassage{
		passage("c1", "The Vienna office reported steady growth."),
		passage("c2", "The London office expanded after the war."),
		passage("c3", "The Paris office closed during the crisis."),
	}
	gen := &fakeGenerator{FailOn: []string{"London office expanded"}}
	p := NewGeographicProcessor(testDeps(gen))

	out, err := p.Process(context.Background(), "How did regional offices fare?", passages, false)
	require.NoError(t, err)
	assert.Contains(t, out, placeholderSentinel)
}

func TestGeographicProcessorFailsOnTwoFailures(t *testing.T) {
	passages := []corpus.RetrievedPassage{
		passage("c1", "The Vienna office reported steady growth."),
		passage("c2", "The London office expanded after the war."),
		passage("c3", "The Paris office closed during the crisis."),
	}
	gen := &fakeGenerator{FailOn: []string{"London office expanded", "Paris office closed"}}
	p := NewGeographicProcessor(testDeps(gen))

	_, err := p.Process(context.Background(), "How did regional offices fare?", passages, false)
	assert.ErrorIs(t, err, ErrProcessingFailed)
}

func TestGeographicProcessorEventIsStrictOnSingleFailure(t *testing.T) {
	passages := []corpus.RetrievedPassage{
		passage("c1", "The Vienna office reported steady growth in 1873."),
		passage("c2", "The London office expanded after the war in 1920."),
	}
	gen := &fakeGenerator{FailOn: []string{"London office expanded"}}
	p := NewGeographicProcessor(testDeps(gen))

	_, err := p.Process(context.Background(), "What happened during the panic of 1873?", passages, true)
	assert.ErrorIs(t, err, ErrProcessingFailed)
}

func TestSortRegionsChronologicallyOrdersByEarliestYear(t *testing.T) {
	partitions := map[string][]corpus.RetrievedPassage{
		"london": {passage("c1", "Reported in 1920.")},
		"vienna": {passage("c2", "Reported in 1873.")},
		"paris":  {passage("c3", "No year mentioned here.")},
	}
	order := []string{"london", "vienna", "paris"}
	sortRegionsChronologically(order, partitions)
	assert.Equal(t, []string{"vienna", "london", "paris"}, order)
}
