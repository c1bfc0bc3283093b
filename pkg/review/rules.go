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
	"strconv"
	"strings"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

var (
	yearPattern       = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
	forbiddenStrings  = []string{"& Co.", "& Company"}
	followupHeading   = regexp.MustCompile(`(?im)^(follow-up questions?|follow up questions?):?\s*$`)
	followupListItem  = regexp.MustCompile(`(?m)^\s*[-*\d.]+\s*.+\?\s*$`)
	minFollowups      = 3
	maxFollowups      = 5
)

// chronologyViolations checks that explicit year mentions within the
// draft never decrease section over section (spec.md §4.12's
// "chronological monotonicity of explicit year mentions").
func chronologyViolations(draft string) []string {
	years := yearPattern.FindAllString(draft, -1)
	prev := -1
	for _, y := range years {
		year, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		if year < prev {
			return []string{fmt.Sprintf("year %d appears after later year %d; narrative must stay chronological", year, prev)}
		}
		prev = year
	}
	return nil
}

// forbiddenStringViolations flags the exact suffixes the analytical
// framework disallows.
func forbiddenStringViolations(draft string) []string {
	var violations []string
	for _, bad := range forbiddenStrings {
		if strings.Contains(draft, bad) {
			violations = append(violations, fmt.Sprintf("forbidden string %q present", bad))
		}
	}
	return violations
}

// followupViolations checks that a follow-up questions section exists
// with a count between 3 and 5.
func followupViolations(draft string) []string {
	loc := followupHeading.FindStringIndex(draft)
	if loc == nil {
		return []string{"missing a follow-up questions section"}
	}
	tail := draft[loc[1]:]
	matches := followupListItem.FindAllString(tail, -1)
	count := len(matches)
	if count < minFollowups || count > maxFollowups {
		return []string{fmt.Sprintf("follow-up question count %d outside the required [%d,%d] range", count, minFollowups, maxFollowups)}
	}
	return nil
}

// attestationViolations checks that every sentence making a factual
// claim shares at least one distinctive word (length > 4, to skip
// articles/prepositions) with some passage in the pool — a substring
// proxy for "every cited fact is attested by at least one retrieved
// passage" (spec.md §4.12), since the core has no entailment model.
func attestationViolations(draft string, passages []corpus.RetrievedPassage) []string {
	if len(passages) == 0 {
		return nil
	}
	pool := make([]string, len(passages))
	for i, p := range passages {
		pool[i] = strings.ToLower(p.Text)
	}

	var violations []string
	for _, sentence := range chunkproc.SplitSentences(draft) {
		if isFollowupOrHeading(sentence) {
			continue
		}
		if !attestedByAny(sentence, pool) {
			violations = append(violations, fmt.Sprintf("sentence not attested by any retrieved passage: %q", truncate(sentence, 80)))
		}
	}
	return violations
}

func isFollowupOrHeading(sentence string) bool {
	trimmed := strings.TrimSpace(sentence)
	return strings.HasSuffix(trimmed, "?") || followupHeading.MatchString(trimmed)
}

func attestedByAny(sentence string, pool []string) bool {
	lower := strings.ToLower(sentence)
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,;:\"'()")
		if len(word) <= 4 {
			continue
		}
		for _, text := range pool {
			if strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
