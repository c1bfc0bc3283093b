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

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandForSearchWidensDownward(t *testing.T) {
	h := NewDefault()
	expanded := h.ExpandForSearch("muslim")
	assert.True(t, expanded["muslim"])
	assert.True(t, expanded["alawite"])
	assert.True(t, expanded["sunni"])
	assert.True(t, expanded["shia"])
}

func TestExpandForSearchDoesNotWidenUpward(t *testing.T) {
	h := NewDefault()
	expanded := h.ExpandForSearch("alawite")
	assert.True(t, expanded["alawite"])
	assert.False(t, expanded["muslim"], "narrow->broad must not widen")
}

func TestExpandForSearchUnknownTerm(t *testing.T) {
	h := NewDefault()
	expanded := h.ExpandForSearch("martian")
	assert.Equal(t, map[string]bool{"martian": true}, expanded)
}

func TestMultiLevelDescendants(t *testing.T) {
	h := NewDefault()
	descendants := h.Descendants("christian")
	assert.True(t, descendants["protestant"])
	assert.True(t, descendants["huguenot"], "transitive descendant via protestant")
	assert.True(t, descendants["catholic"])
}

func TestNewRejectsCycle(t *testing.T) {
	_, err := New([]Edge{
		{Child: "a", Parent: "b"},
		{Child: "b", Parent: "c"},
		{Child: "c", Parent: "a"},
	})
	require.Error(t, err)
}

func TestExpansionClosureIdempotent(t *testing.T) {
	h := NewDefault()
	first := h.ExpandForSearch("christian")
	// Expanding every member of the closure downward again adds nothing new.
	union := map[string]bool{}
	for term := range first {
		for d := range h.ExpandForSearch(term) {
			union[d] = true
		}
	}
	assert.Equal(t, len(first), len(union))
}
