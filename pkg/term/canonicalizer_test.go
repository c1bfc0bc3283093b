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

package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeIdempotent(t *testing.T) {
	c := New()
	inputs := []string{
		"Rothschild_Vienna", "PANICS of 1914!", "WWI", "  Hausa  Families ",
		"sephardi-jewish", "The Bank's Crises",
	}
	for _, in := range inputs {
		once := c.Canonicalize(in)
		twice := c.Canonicalize(once)
		assert.Equal(t, once, twice, "not idempotent for %q", in)
	}
}

func TestCanonicalizeNormalizesVariants(t *testing.T) {
	c := New()
	assert.Equal(t, "rothschild vienna", c.Canonicalize("Rothschild_Vienna"))
	assert.Equal(t, "bank", c.Canonicalize("banks"))
	assert.Equal(t, "crisis", c.Canonicalize("crises"))
	assert.Equal(t, "world war i", c.Canonicalize("wwi"))
	assert.Equal(t, "sephardi-jewish", c.Canonicalize("Sephardi-Jewish"))
}

func TestTokenizeFiltersStopWords(t *testing.T) {
	c := New()
	tokens := c.Tokenize("Tell me about the Panic of 1914")
	assert.Equal(t, []string{"panic", "1914"}, tokens)
}

func TestTokenizePreservesOrder(t *testing.T) {
	c := New()
	tokens := c.Tokenize("Rothschild Vienna banking family")
	assert.Equal(t, []string{"rothschild", "vienna", "banking", "family"}, tokens)
}

func TestTokenizeExpandsAcronyms(t *testing.T) {
	c := New()
	tokens := c.Tokenize("Tell me about WWI refugee banking")
	assert.Equal(t, []string{"world", "war", "i", "refugee", "banking"}, tokens)
}
