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

package chunkproc

import "github.com/kadirpekel/ledgerlens/pkg/corpus"

// nearDuplicateOverlap is the sentence-overlap fraction above which
// two passages are considered near-duplicates (spec.md §4.6).
const nearDuplicateOverlap = 0.8

// Deduplicate removes exact text duplicates and, among near-duplicate
// passages (more than 80% shared sentences), keeps the longer text
// and discards the rest. Relative order of the surviving passages is
// preserved.
func Deduplicate(passages []corpus.RetrievedPassage) []corpus.RetrievedPassage {
	sentences := make([][]string, len(passages))
	for i, p := range passages {
		sentences[i] = splitSentences(p.Text)
	}

	discarded := make([]bool, len(passages))
	seenText := make(map[string]int) // text -> surviving index

	for i := range passages {
		if discarded[i] {
			continue
		}
		if _, ok := seenText[passages[i].Text]; ok {
			discarded[i] = true
			continue
		}
		seenText[passages[i].Text] = i

		for j := i + 1; j < len(passages); j++ {
			if discarded[j] || passages[j].Text == passages[i].Text {
				continue
			}
			if sentenceOverlap(sentences[i], sentences[j]) > nearDuplicateOverlap {
				if len(passages[j].Text) > len(passages[i].Text) {
					discarded[i] = true
					break
				}
				discarded[j] = true
			}
		}
	}

	out := make([]corpus.RetrievedPassage, 0, len(passages))
	for i, p := range passages {
		if !discarded[i] {
			out = append(out, p)
		}
	}
	return out
}

// DeduplicateFor deduplicates passages retrieved under key (the
// high-cardinality term or question the passages were retrieved for),
// consulting cache first: a hit filters passages down to the
// precomputed surviving chunk-ID set, skipping the O(n^2)
// sentence-overlap scan entirely. A nil cache or a miss for key falls
// back to Deduplicate, so callers see identical output whether or not
// the cache is present.
func DeduplicateFor(passages []corpus.RetrievedPassage, key string, cache *Cache) []corpus.RetrievedPassage {
	if cache != nil {
		if surviving, ok := cache.byTerm[key]; ok {
			out := make([]corpus.RetrievedPassage, 0, len(passages))
			for _, p := range passages {
				if surviving[p.ChunkID] {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return Deduplicate(passages)
}

// sentenceOverlap returns the fraction of the shorter sentence set
// that also appears in the longer one.
func sentenceOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shorter, longer := a, b
	if len(b) < len(a) {
		shorter, longer = b, a
	}

	longerSet := make(map[string]bool, len(longer))
	for _, s := range longer {
		longerSet[s] = true
	}

	shared := 0
	for _, s := range shorter {
		if longerSet[s] {
			shared++
		}
	}
	return float64(shared) / float64(len(shorter))
}
