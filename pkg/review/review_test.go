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
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/prompt"
)

const validDraft = `*Rothschild* expanded steadily after 1815. They opened a Vienna office in 1820.

Follow-up questions:
- What prompted the Vienna expansion?
- Who led the Vienna office?
- How did competitors respond?
`

func samplePassages() []corpus.RetrievedPassage {
	return []corpus.RetrievedPassage{
		{ChunkID: "c1", Text: "Rothschild expanded its banking network after 1815."},
		{ChunkID: "c2", Text: "They opened a Vienna office in 1820 to serve Austrian clients."},
	}
}

func TestViolationsCleanDraftHasNone(t *testing.T) {
	got := Violations(validDraft, "Tell me about Rothschild", samplePassages())
	assert.Empty(t, got)
}

func TestForbiddenStringViolation(t *testing.T) {
	draft := strings.Replace(validDraft, "*Rothschild*", "Rothschild & Co.", 1)
	got := Violations(draft, "Tell me about Rothschild", samplePassages())
	assert.Contains(t, strings.Join(got, " | "), "forbidden string")
}

func TestChronologyViolationDetectsOutOfOrderYears(t *testing.T) {
	draft := "The firm opened in 1920. It had already opened in 1850."
	got := chronologyViolations(draft)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "chronological")
}

func TestFollowupViolationMissingSection(t *testing.T) {
	got := followupViolations("Just a narrative with no follow-ups at all.")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "missing")
}

func TestFollowupViolationWrongCount(t *testing.T) {
	draft := "Narrative text.\n\nFollow-up questions:\n- Only one?\n"
	got := followupViolations(draft)
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "outside the required")
}

func TestTypographyFlagsBareInstitution(t *testing.T) {
	got := typographyViolations("Rothschild opened a new branch in 1900.")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Rothschild")
}

func TestTypographyFlagsItalicizedPerson(t *testing.T) {
	got := typographyViolations("*Nathan Rothschild* led the expansion in 1900.")
	require.NotEmpty(t, got)
	assert.Contains(t, strings.Join(got, " | "), "Nathan Rothschild")
}

func TestAttestationFlagsUnsupportedSentence(t *testing.T) {
	draft := "The Rothschild family colonized the moon in 1999."
	got := attestationViolations(draft, samplePassages())
	assert.NotEmpty(t, got)
}

// fakeGenerator returns drafts in sequence, correcting the forbidden
// substring on its second call.
type fakeGenerator struct {
	drafts []string
	calls  int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ int, _ float64, _ time.Time) (string, error) {
	d := f.drafts[f.calls]
	f.calls++
	return d, nil
}

func TestReviewConvergesAfterOneCorrection(t *testing.T) {
	badDraft := strings.Replace(validDraft, "*Rothschild*", "Rothschild & Co.", 1)
	gen := &fakeGenerator{drafts: []string{validDraft}}
	r := New(gen, prompt.New(), Config{MaxIterations: 5}, nil)

	result, err := r.Review(context.Background(), "Tell me about Rothschild", badDraft, samplePassages(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
	assert.False(t, result.Capped)
	assert.Equal(t, validDraft, result.Draft)
	assert.Equal(t, 1, gen.calls)
}

func TestReviewCapsWithoutConverging(t *testing.T) {
	badDraft := strings.Replace(validDraft, "*Rothschild*", "Rothschild & Co.", 1)
	drafts := make([]string, 3)
	for i := range drafts {
		drafts[i] = badDraft
	}
	gen := &fakeGenerator{drafts: drafts}
	r := New(gen, prompt.New(), Config{MaxIterations: 3}, nil)

	result, err := r.Review(context.Background(), "Tell me about Rothschild", badDraft, samplePassages(), time.Time{})
	require.NoError(t, err)
	assert.True(t, result.Capped)
	assert.Equal(t, 3, result.Iterations)
}
