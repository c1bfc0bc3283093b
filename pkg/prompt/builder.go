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

// Package prompt assembles the deterministic, pure-function prompts
// that encode the analytical framework (spec.md §4.8): narrative,
// merge, and review prompts all build from typed inputs and a single
// centralized rule block.
package prompt

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

// Builder constructs prompts. It holds no state; every method is a
// pure function of its arguments.
type Builder struct{}

// New creates a Builder.
func New() *Builder {
	return &Builder{}
}

// Narrative builds the prompt for one batch of passages answering
// question.
func (b *Builder) Narrative(question string, batch []corpus.RetrievedPassage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\n", sanitizeInput(question))
	sb.WriteString("Passages:\n")
	for _, p := range batch {
		fmt.Fprintf(&sb, "[%s] %s\n", p.ChunkID, p.Text)
	}
	sb.WriteString("\n")
	sb.WriteString(ruleBlock)
	sb.WriteString("\n\nWrite a narrative answer to the question using only the passages above.")
	return sb.String()
}

// Merge builds the prompt that unifies a set of partition/batch
// drafts into one narrative, preserving chronology and the
// analytical framework.
func (b *Builder) Merge(question string, drafts []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n\n", sanitizeInput(question))
	sb.WriteString("Drafts to merge, in order:\n")
	for i, d := range drafts {
		fmt.Fprintf(&sb, "--- Draft %d ---\n%s\n\n", i+1, d)
	}
	sb.WriteString(ruleBlock)
	sb.WriteString("\n\nMerge the drafts above into a single unified narrative. Do not drop any fact present in the drafts.")
	return sb.String()
}

// Review builds the correction prompt for a draft that a
// AnswerReviewer found rule violations in. It instructs correcting
// only the listed issues.
func (b *Builder) Review(draft string, violations []string) string {
	var sb strings.Builder
	sb.WriteString("Draft:\n")
	sb.WriteString(draft)
	sb.WriteString("\n\nThe following issues were found in the draft above:\n")
	for _, v := range violations {
		fmt.Fprintf(&sb, "- %s\n", v)
	}
	sb.WriteString("\nRewrite the draft, correcting only the listed issues and preserving everything else unchanged.\n\n")
	sb.WriteString(ruleBlock)
	return sb.String()
}
