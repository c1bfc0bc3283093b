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

// Batch is one greedily packed group of passages bounded by a word
// budget, ready for a single narrative-prompt LLM call.
type Batch struct {
	Passages  []corpus.RetrievedPassage
	WordCount int
}

// BatchPassages greedily packs passages into batches no wider than
// maxWords each. A single passage wider than maxWords gets its own
// oversized batch rather than being split mid-sentence — the packer
// never splits within a passage, only between passages, since each
// retrieved passage is already the atomic unit handed to the LLM
// (spec.md §4.6: "splits never occur mid-sentence").
func BatchPassages(passages []corpus.RetrievedPassage, maxWords int) []Batch {
	var batches []Batch
	var current Batch

	for _, p := range passages {
		w := p.WordCount
		if w == 0 {
			w = wordCount(p.Text)
		}
		if current.WordCount > 0 && current.WordCount+w > maxWords {
			batches = append(batches, current)
			current = Batch{}
		}
		current.Passages = append(current.Passages, p)
		current.WordCount += w
	}
	if len(current.Passages) > 0 {
		batches = append(batches, current)
	}
	return batches
}
