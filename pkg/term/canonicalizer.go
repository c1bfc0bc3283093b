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

// Package term normalizes query fragments and stored index keys to one
// canonical lookup form: lowercased, punctuation-stripped (internal
// hyphens kept), underscore-folded, singularized, and acronym-expanded.
//
// Canonicalize is a pure function with no I/O; it is applied identically
// at index-build time and at query time so lookups never need variant
// expansion (spec.md §3).
package term

import "strings"

// pluralToSingular maps a fixed set of irregular and domain-relevant
// plurals to their singular canonical form. Regular "-s"/"-es" plurals
// are handled by the suffix rules in singularize.
var pluralToSingular = map[string]string{
	"banks":        "bank",
	"firms":        "firm",
	"families":     "family",
	"companies":    "company",
	"crises":       "crisis",
	"panics":       "panic",
	"jews":         "jew",
	"identities":   "identity",
	"dynasties":    "dynasty",
	"currencies":   "currency",
	"economies":    "economy",
	"men":          "man",
	"women":        "woman",
	"children":     "child",
	"people":       "person",
}

// acronyms maps a fixed set of acronyms encountered in the corpus to
// their expanded canonical phrase.
var acronyms = map[string]string{
	"wwi":  "world war i",
	"wwii": "world war ii",
	"us":   "united states",
	"usa":  "united states",
	"uk":   "united kingdom",
	"nyse": "new york stock exchange",
	"ecb":  "european central bank",
	"imf":  "international monetary fund",
}

// stopWords are filtered out of Tokenize's output. They carry no
// retrieval signal on their own.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "and": true, "or": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"about": true, "tell": true, "me": true, "what": true, "who": true,
	"when": true, "where": true, "how": true, "did": true, "do": true,
	"does": true, "with": true, "by": true, "from": true, "that": true,
	"this": true, "it": true, "as": true,
}

// Canonicalizer normalizes query fragments and stored index keys.
// Stateless and safe for concurrent use.
type Canonicalizer struct{}

// New creates a Canonicalizer.
func New() *Canonicalizer {
	return &Canonicalizer{}
}

// Canonicalize lowercases raw, strips punctuation (keeping internal
// hyphens), folds underscores to spaces, collapses whitespace,
// singularizes known plurals, and expands known acronyms.
//
// Canonicalize is idempotent: Canonicalize(Canonicalize(x)) == Canonicalize(x).
func (c *Canonicalizer) Canonicalize(raw string) string {
	s := normalize(raw)

	if expanded, ok := acronyms[s]; ok {
		s = expanded
	}

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = singularize(w)
	}
	return strings.Join(words, " ")
}

// normalize lowercases raw, strips punctuation (keeping internal
// hyphens), folds underscores to spaces, and collapses whitespace —
// everything Canonicalize does short of acronym expansion and
// singularization, shared with Tokenize so both apply it identically.
func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	s = stripPunctuation(s)
	return collapseWhitespace(s)
}

// Tokenize splits question into canonical tokens, filtering stop words.
// Token order is preserved (first occurrence order matters to Retriever's
// determinism guarantee).
//
// Acronym expansion is applied per word, not to the question as a
// whole: Canonicalize's acronym lookup only matches when an entire
// string equals one acronym key, which a multi-word question never
// does. An acronym token that expands to a multi-word phrase (e.g.
// "wwi" -> "world war i") contributes each of that phrase's words as
// its own token.
func (c *Canonicalizer) Tokenize(question string) []string {
	s := normalize(question)
	var tokens []string
	for _, w := range strings.Fields(s) {
		if expanded, ok := acronyms[w]; ok {
			for _, ew := range strings.Fields(expanded) {
				if !stopWords[ew] {
					tokens = append(tokens, ew)
				}
			}
			continue
		}
		w = singularize(w)
		if stopWords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r == '-':
			// Keep internal hyphens only (surrounded by word characters).
			if i > 0 && i < len(runes)-1 && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// singularize applies a fixed irregular-plural table first, then regular
// "-ies"/"-es"/"-s" suffix rules.
func singularize(word string) string {
	if singular, ok := pluralToSingular[word]; ok {
		return singular
	}
	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "xes"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && !strings.HasSuffix(word, "is") && len(word) > 3:
		return word[:len(word)-1]
	default:
		return word
	}
}
