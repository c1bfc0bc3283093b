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
	"math"
	"sort"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

// GeographicProcessor answers GEO_TOPIC and EVENT questions: passages
// are partitioned by region, each partition's batches are narrated and
// merged independently, then the partition drafts are merged (spec.md
// §4.11). For EVENT questions regions are ordered by the earliest year
// mentioned within them rather than alphabetically, to preserve
// cross-regional chronology, and any partition failure fails the job.
type GeographicProcessor struct {
	Deps Deps
}

// NewGeographicProcessor builds a GeographicProcessor over deps.
func NewGeographicProcessor(deps Deps) *GeographicProcessor {
	return &GeographicProcessor{Deps: deps}
}

// Process runs the fan-out/fan-in pipeline over passages partitioned
// by region. isEvent selects EVENT-query semantics: chronological
// region ordering and strict (any-failure-fails) tolerance.
func (p *GeographicProcessor) Process(ctx context.Context, question string, passages []corpus.RetrievedPassage, isEvent bool) (string, error) {
	partitions := chunkproc.PartitionByRegion(passages)

	var order []string
	for region, ps := range partitions {
		if len(ps) > 0 {
			order = append(order, region)
		}
	}

	if isEvent {
		sortRegionsChronologically(order, partitions)
	} else {
		sort.Strings(order)
	}

	return run(ctx, question, order, partitions, isEvent, p.Deps)
}

// sortRegionsChronologically orders regions by the earliest explicit
// year mentioned across their passages, undated regions last.
func sortRegionsChronologically(order []string, partitions map[string][]corpus.RetrievedPassage) {
	earliest := make(map[string]int, len(order))
	for _, region := range order {
		year := math.MaxInt32
		for _, p := range partitions[region] {
			if y, ok := chunkproc.EarliestEventYear(p.Text); ok && y < year {
				year = y
			}
		}
		earliest[region] = year
	}

	sort.Slice(order, func(i, j int) bool {
		yi, yj := earliest[order[i]], earliest[order[j]]
		if yi != yj {
			return yi < yj
		}
		return order[i] < order[j]
	})
}
