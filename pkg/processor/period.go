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

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

// PeriodProcessor answers PERIOD_TOPIC questions: passages are
// partitioned by period, each partition's batches are narrated and
// merged independently, then the partition drafts are merged in
// chronological order (spec.md §4.11).
type PeriodProcessor struct {
	Deps Deps
}

// NewPeriodProcessor builds a PeriodProcessor over deps.
func NewPeriodProcessor(deps Deps) *PeriodProcessor {
	return &PeriodProcessor{Deps: deps}
}

// Process runs the fan-out/fan-in pipeline over passages partitioned
// by period, in chronological order. PERIOD_TOPIC questions are never
// strict: one failed period is tolerated as a placeholder.
func (p *PeriodProcessor) Process(ctx context.Context, question string, passages []corpus.RetrievedPassage) (string, error) {
	partitions := chunkproc.PartitionByPeriod(passages)

	var order []string
	for _, label := range chunkproc.PeriodOrder() {
		if len(partitions[label]) > 0 {
			order = append(order, label)
		}
	}

	return run(ctx, question, order, partitions, false, p.Deps)
}
