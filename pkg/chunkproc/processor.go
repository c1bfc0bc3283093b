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

// Package chunkproc reduces retrieval redundancy and partitions
// passages for downstream LLM fan-out (spec.md §4.6): Deduplicate,
// PartitionByPeriod, PartitionByRegion, and BatchPassages.
package chunkproc

import "github.com/kadirpekel/ledgerlens/pkg/corpus"

// PartitionByPeriod assigns each passage to the period label of the
// earliest explicit year mentioned in its text. Passages with no year
// go to UndatedPeriod, which is then merged into the latest non-empty
// period bucket and removed as its own key.
func PartitionByPeriod(passages []corpus.RetrievedPassage) map[string][]corpus.RetrievedPassage {
	out := make(map[string][]corpus.RetrievedPassage)
	for _, p := range passages {
		label := UndatedPeriod
		if year, ok := earliestYear(p.Text); ok {
			label = periodLabel(year)
		}
		p.Period = label
		out[label] = append(out[label], p)
	}

	undated, hasUndated := out[UndatedPeriod]
	if !hasUndated {
		return out
	}
	delete(out, UndatedPeriod)

	latest := latestNonEmptyPeriod(out)
	if latest == "" {
		out[UndatedPeriod] = undated
		return out
	}
	out[latest] = append(out[latest], undated...)
	return out
}

func latestNonEmptyPeriod(buckets map[string][]corpus.RetrievedPassage) string {
	order := periodOrder()
	for i := len(order) - 1; i >= 0; i-- {
		if len(buckets[order[i]]) > 0 {
			return order[i]
		}
	}
	return ""
}

// PartitionByRegion assigns each passage to the first gazetteer entry
// mentioned in its text, or UndatedRegion if none is found.
func PartitionByRegion(passages []corpus.RetrievedPassage) map[string][]corpus.RetrievedPassage {
	out := make(map[string][]corpus.RetrievedPassage)
	for _, p := range passages {
		label := UndatedRegion
		if region, ok := primaryRegion(p.Text); ok {
			label = region
		}
		p.Region = label
		out[label] = append(out[label], p)
	}
	return out
}

// PeriodOrder exposes the fixed chronological period ordering so
// callers (PeriodProcessor's final merge) can walk partitions in
// order rather than map iteration order.
func PeriodOrder() []string {
	return periodOrder()
}

// GeographicTermCount returns how many distinct gazetteer entries
// text mentions, used by QueryRouter's GEO_TOPIC rule.
func GeographicTermCount(text string) int {
	return len(regionsMentioned(text))
}

// EarliestEventYear returns the smallest explicit year mentioned in
// text, used to sort GeographicProcessor's regions chronologically
// for EVENT queries.
func EarliestEventYear(text string) (int, bool) {
	return earliestYear(text)
}
