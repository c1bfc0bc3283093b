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

import (
	"regexp"
	"strings"
)

var sentenceBoundary = regexp.MustCompile(`(?:[.!?])(?:["')\]]?)\s+`)

// splitSentences breaks text into trimmed, non-empty sentences, each
// keeping its terminal punctuation. The
// boundary regexp never fires mid-abbreviation perfectly, but batch
// and dedup only need "never split mid-sentence in the common case",
// not a full sentence tokenizer.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// SplitSentences exposes splitSentences to other packages (AnswerReviewer
// needs the same sentence boundaries dedup uses).
func SplitSentences(text string) []string {
	return splitSentences(text)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
