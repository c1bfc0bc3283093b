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

package review

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
)

// referentialOpeners are always allowed as a sentence's apparent
// subject: they refer back to a subject introduced in a prior
// sentence rather than naming a new, unrelated one.
var referentialOpeners = map[string]bool{
	"it": true, "its": true, "they": true, "their": true,
	"this": true, "these": true, "that": true, "those": true,
	"the": true, "a": true, "an": true, "by": true, "in": true, "by 1914": true,
}

var properNoun = regexp.MustCompile(`^[A-Z][a-zA-Z'-]*`)

// allowedSubjects derives the set of words the draft's sentences are
// permitted to open on, from the capitalized words in the question
// (spec.md §4.12's "allowed set derived from the question").
func allowedSubjects(question string) map[string]bool {
	allowed := make(map[string]bool)
	for _, word := range strings.Fields(question) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if properNoun.MatchString(word) {
			allowed[strings.ToLower(word)] = true
		}
	}
	return allowed
}

// subjectViolations checks that each sentence's first noun phrase is
// either a referential opener or one of the allowed subjects derived
// from the question (spec.md §4.12's subject-active-sentence check).
func subjectViolations(draft, question string) []string {
	allowed := allowedSubjects(question)
	if len(allowed) == 0 {
		// The question carried no proper nouns to anchor against; the
		// heuristic has nothing to check.
		return nil
	}

	var violations []string
	for _, sentence := range chunkproc.SplitSentences(draft) {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" || strings.HasSuffix(trimmed, "?") {
			continue
		}
		words := strings.Fields(trimmed)
		if len(words) == 0 {
			continue
		}
		first := strings.ToLower(strings.Trim(words[0], "*.,;:!?\"'()"))
		if referentialOpeners[first] {
			continue
		}
		if allowed[first] {
			continue
		}
		if len(words) > 1 {
			second := strings.ToLower(strings.Trim(words[1], "*.,;:!?\"'()"))
			if allowed[second] {
				continue
			}
		}
		violations = append(violations, fmt.Sprintf("sentence subject does not match question subject: %q", truncate(trimmed, 80)))
	}
	return violations
}
