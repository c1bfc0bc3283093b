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

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureStore() *Store {
	type rec = struct {
		Text            string
		ApproxWordCount int
	}
	return NewForTest(
		map[string][]string{
			"rothschild": {"c1", "c2"},
			"vienna":     {"c2", "c3"},
		},
		map[string]rec{
			"c1": {Text: "Rothschild opened a house in Frankfurt.", ApproxWordCount: 6},
			"c2": {Text: "The Vienna branch of the Rothschild family.", ApproxWordCount: 7},
			"c3": {Text: "Vienna banking in 1816.", ApproxWordCount: 4},
		},
		map[string]string{
			"e1": "See also the 1816 ledger.",
		},
		map[string][]string{
			"c1": {"e1"},
		},
	)
}

func TestChunksForTerm(t *testing.T) {
	s := fixtureStore()
	assert.Equal(t, []string{"c1", "c2"}, s.ChunksForTerm("rothschild"))
	assert.Nil(t, s.ChunksForTerm("unknown"))
}

func TestChunkTextNotFound(t *testing.T) {
	s := fixtureStore()
	_, err := s.ChunkText("missing")
	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "chunk", nf.Kind)
}

func TestEndnotesForChunk(t *testing.T) {
	s := fixtureStore()
	assert.Equal(t, []string{"e1"}, s.EndnotesForChunk("c1"))
	text, err := s.EndnoteText("e1")
	require.NoError(t, err)
	assert.Equal(t, "See also the 1816 ledger.", text)
}

func TestHasTerm(t *testing.T) {
	s := fixtureStore()
	assert.True(t, s.HasTerm("vienna"))
	assert.False(t, s.HasTerm("rothschild vienna"))
}
