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

// Package processor implements the partitioned fan-out/fan-in engine
// shared by PeriodProcessor and GeographicProcessor (spec.md §4.11):
// partition passages, batch each partition, process batches
// concurrently under RateGate, merge each partition's batch drafts,
// then merge the partition drafts into one final narrative.
//
// PeriodProcessor and GeographicProcessor are expressed as thin
// wrappers supplying a partitioning function and an ordering, per the
// "partitioned fan-out" primitive called for in spec.md §9.
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/llm"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
	"github.com/kadirpekel/ledgerlens/pkg/ratelimit"
	"github.com/kadirpekel/ledgerlens/pkg/telemetry"
)

// ErrProcessingFailed is returned when too many partitions failed
// after retries (spec.md §7's ProcessingFailed).
var ErrProcessingFailed = errors.New("processor: too many partitions failed")

// placeholderSentinel replaces a single failed partition's draft so
// the final merge can still proceed (spec.md §4.11 failure rule).
const placeholderSentinel = "[this section could not be generated after repeated attempts]"

// Generator is the subset of llm.Client this package depends on,
// accepted as an interface so tests can substitute a fake backend.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int, temperature float64, deadline time.Time) (string, error)
}

// Deps are the shared collaborators both processors drive.
type Deps struct {
	Gate             *ratelimit.Gate
	LLM              Generator
	Prompts          *prompt.Builder
	Concurrency      int
	MaxWordsPerBatch int
	MaxOutputTokens  int
	Temperature      float64
	Deadline         time.Time
	Metrics          *telemetry.Metrics
}

// tokenEstimate approximates the token cost of text for RateGate
// accounting. spec.md's generate contract exposes no token count, so
// this package estimates from word count as the ambient convention
// (documented in DESIGN.md); it is not a claim of tokenizer fidelity.
func tokenEstimate(text string) int {
	words := len(strings.Fields(text))
	return words + words/3
}

// run executes the shared fan-out primitive over partitions (keyed by
// partition label) in the given order, which must already contain
// exactly the non-empty partition labels in the desired merge order.
// strict is true for EVENT queries, where any partition failure fails
// the whole job.
func run(ctx context.Context, question string, order []string, partitions map[string][]corpus.RetrievedPassage, strict bool, deps Deps) (string, error) {
	type batchJob struct {
		partitionIdx int
		passages     []corpus.RetrievedPassage
	}

	partitionBatches := make([][]chunkproc.Batch, len(order))
	var jobs []batchJob
	for i, label := range order {
		batches := chunkproc.BatchPassages(partitions[label], deps.MaxWordsPerBatch)
		partitionBatches[i] = batches
		for _, b := range batches {
			jobs = append(jobs, batchJob{partitionIdx: i, passages: b.Passages})
		}
	}

	batchDrafts := make([][]string, len(order))
	for i, batches := range partitionBatches {
		batchDrafts[i] = make([]string, len(batches))
	}
	partitionFailed := make([]bool, len(order))

	sem := semaphore.NewWeighted(int64(deps.Concurrency))
	group, groupCtx := errgroup.WithContext(ctx)

	jobBatchIndex := make([]int, len(jobs))
	{
		counters := make([]int, len(order))
		for idx, j := range jobs {
			jobBatchIndex[idx] = counters[j.partitionIdx]
			counters[j.partitionIdx]++
		}
	}

	for idx, job := range jobs {
		idx, job := idx, job
		if err := sem.Acquire(groupCtx, 1); err != nil {
			// Context was cancelled before this job could launch; mark
			// its partition (and every partition still unlaunched)
			// failed rather than leaving their drafts silently empty.
			for _, remaining := range jobs[idx:] {
				partitionFailed[remaining.partitionIdx] = true
			}
			break
		}
		group.Go(func() error {
			defer sem.Release(1)

			draft, err := generateNarrative(groupCtx, question, job.passages, deps)
			if err != nil {
				partitionFailed[job.partitionIdx] = true
				return nil
			}
			batchDrafts[job.partitionIdx][jobBatchIndex[idx]] = draft
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}

	failedCount := 0
	for _, f := range partitionFailed {
		if f {
			failedCount++
		}
	}
	if strict && failedCount > 0 {
		return "", fmt.Errorf("%w: partition failed and query requires strict success", ErrProcessingFailed)
	}
	if failedCount >= 2 {
		return "", fmt.Errorf("%w: %d partitions failed", ErrProcessingFailed, failedCount)
	}

	partitionDrafts := make([]string, len(order))
	for i := range order {
		if partitionFailed[i] {
			partitionDrafts[i] = placeholderSentinel
			continue
		}
		draft, err := generateMerge(ctx, question, batchDrafts[i], deps)
		if err != nil {
			failedCount++
			if strict || failedCount >= 2 {
				return "", fmt.Errorf("%w: partition merge failed", ErrProcessingFailed)
			}
			partitionDrafts[i] = placeholderSentinel
			continue
		}
		partitionDrafts[i] = draft
	}

	return generateMerge(ctx, question, partitionDrafts, deps)
}

func generateNarrative(ctx context.Context, question string, passages []corpus.RetrievedPassage, deps Deps) (string, error) {
	p := deps.Prompts.Narrative(question, passages)
	return callLLM(ctx, p, deps)
}

func generateMerge(ctx context.Context, question string, drafts []string, deps Deps) (string, error) {
	p := deps.Prompts.Merge(question, drafts)
	return callLLM(ctx, p, deps)
}

// llmErrorKind extracts the telemetry label for an LlmClient failure,
// falling back to "error" for anything not wrapping llm.Error.
func llmErrorKind(err error) string {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind.String()
	}
	return "error"
}

func callLLM(ctx context.Context, renderedPrompt string, deps Deps) (string, error) {
	est := tokenEstimate(renderedPrompt) + deps.MaxOutputTokens

	waitStart := time.Now()
	handle, err := deps.Gate.Acquire(ctx, est)
	if err != nil {
		return "", err
	}
	deps.Metrics.RecordRateGateWait(time.Since(waitStart))

	out, err := deps.LLM.Generate(ctx, renderedPrompt, deps.MaxOutputTokens, deps.Temperature, deps.Deadline)
	actual := est
	if err == nil {
		actual = tokenEstimate(renderedPrompt) + tokenEstimate(out)
	}
	handle.Release(actual)

	if err != nil {
		deps.Metrics.RecordLLMCall(llmErrorKind(err))
		return "", err
	}
	deps.Metrics.RecordLLMCall("ok")
	return out, nil
}
