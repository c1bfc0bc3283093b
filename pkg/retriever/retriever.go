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

// Package retriever implements the hybrid keyword+semantic retrieval
// algorithm of spec.md §4.5: it fans a question out across
// TermCanonicalizer, IdentityHierarchy, IndexStore, and VectorSearch
// and merges the results into one deduplicated, ordered passage list.
package retriever

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
	"github.com/kadirpekel/ledgerlens/pkg/identity"
	"github.com/kadirpekel/ledgerlens/pkg/index"
	"github.com/kadirpekel/ledgerlens/pkg/term"
	"github.com/kadirpekel/ledgerlens/pkg/vectorsearch"
)

// Config holds the numeric tunables spec.md §6 assigns to the
// Retriever.
type Config struct {
	// KSem is the number of semantic matches requested per query.
	KSem int
	// SparseThreshold triggers endnote augmentation when the keyword
	// hit count falls below it.
	SparseThreshold int
	// MaxRetrieved truncates the merged result list.
	MaxRetrieved int
}

// Retriever produces the passage set a query is answered from.
type Retriever struct {
	store     *index.Store
	canon     *term.Canonicalizer
	hierarchy *identity.Hierarchy
	vector    *vectorsearch.VectorSearch
	cfg       Config
	logger    *slog.Logger
}

// New builds a Retriever. vector may be nil, which behaves as if
// VectorSearch were permanently unavailable (keyword-only mode).
func New(store *index.Store, canon *term.Canonicalizer, hierarchy *identity.Hierarchy, vector *vectorsearch.VectorSearch, cfg Config, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{store: store, canon: canon, hierarchy: hierarchy, vector: vector, cfg: cfg, logger: logger}
}

// Result is Retrieve's full output: the merged passage list plus the
// query-expansion and degradation diagnostics the algorithm produces
// as a side effect, surfaced so callers can record them without
// Retriever reaching into a telemetry sink itself.
type Result struct {
	Passages []corpus.RetrievedPassage
	// ExpandedTerms is the canonical term set the question expanded
	// to (spec.md §4.5 step 1). For a firm-phrase match it is just
	// the matched phrase, since expansion is bypassed entirely.
	ExpandedTerms []string
	// Degraded is true when semantic search was unavailable and the
	// result fell back to keyword-only (spec.md §7's SearchUnavailable).
	Degraded bool
}

// Retrieve runs the full algorithm for question and returns the
// merged passage list, truncated to cfg.MaxRetrieved.
func (r *Retriever) Retrieve(ctx context.Context, question string) (Result, error) {
	tokens := r.canon.Tokenize(question)

	if phrase, ok := r.firmPhrase(tokens); ok {
		return Result{Passages: r.firmPhraseResult(phrase), ExpandedTerms: []string{phrase}}, nil
	}

	terms := r.expandTerms(tokens)

	seen := make(map[string]bool)
	var keywordIDs []string
	for _, t := range terms {
		for _, id := range r.store.ChunksForTerm(t) {
			if seen[id] {
				continue
			}
			seen[id] = true
			keywordIDs = append(keywordIDs, id)
		}
	}

	semanticScore := make(map[string]float64)
	var semanticOnlyIDs []string
	degraded := false
	if r.vector != nil {
		matches, err := r.vector.Search(ctx, question, r.cfg.KSem)
		if err != nil {
			if !errors.Is(err, vectorsearch.ErrUnavailable) {
				return Result{}, err
			}
			degraded = true
			r.logger.Warn("semantic search unavailable, degrading to keyword-only", "error", err)
		} else {
			for _, m := range matches {
				semanticScore[m.ChunkID] = m.Score
				if !seen[m.ChunkID] {
					seen[m.ChunkID] = true
					semanticOnlyIDs = append(semanticOnlyIDs, m.ChunkID)
				}
			}
		}
	}

	keywordSet := make(map[string]bool, len(keywordIDs))
	for _, id := range keywordIDs {
		keywordSet[id] = true
	}

	ordered := append(append([]string{}, keywordIDs...), semanticOnlyIDs...)

	passages := make([]corpus.RetrievedPassage, 0, len(ordered))
	for _, id := range ordered {
		text, err := r.store.ChunkText(id)
		if err != nil {
			r.logger.Warn("keyword index references missing chunk", "chunk_id", id, "error", err)
			continue
		}
		wc, _ := r.store.ChunkWordCount(id)
		tag := corpus.SourceSemantic
		if keywordSet[id] {
			tag = corpus.SourceKeyword
		}
		passages = append(passages, corpus.RetrievedPassage{
			ChunkID:   id,
			Text:      text,
			Score:     semanticScore[id],
			SourceTag: tag,
			WordCount: wc,
		})
	}

	if len(keywordIDs) < r.cfg.SparseThreshold {
		passages = r.augmentWithEndnotes(passages, keywordIDs, seen)
	}

	if len(passages) > r.cfg.MaxRetrieved {
		passages = passages[:r.cfg.MaxRetrieved]
	}
	return Result{Passages: passages, ExpandedTerms: terms, Degraded: degraded}, nil
}

// expandTerms tokenizes and widens each token via the identity
// hierarchy, returning a deterministic, first-seen-ordered,
// deduplicated union of canonical terms.
func (r *Retriever) expandTerms(tokens []string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, tok := range tokens {
		expanded := r.hierarchy.ExpandForSearch(tok)
		widened := make([]string, 0, len(expanded))
		for t := range expanded {
			widened = append(widened, t)
		}
		sort.Strings(widened)
		for _, t := range widened {
			if seen[t] {
				continue
			}
			seen[t] = true
			terms = append(terms, t)
		}
	}
	return terms
}

// firmPhrase looks for the longest contiguous token span that is
// itself an indexed multi-word term, per the firm-phrase rule.
func (r *Retriever) firmPhrase(tokens []string) (string, bool) {
	for length := len(tokens); length >= 2; length-- {
		for start := 0; start+length <= len(tokens); start++ {
			phrase := strings.Join(tokens[start:start+length], " ")
			if r.store.HasTerm(phrase) {
				return phrase, true
			}
		}
	}
	return "", false
}

// firmPhraseResult builds the restricted result set for a firm-phrase
// match: exactly chunks_for_term(phrase), no token-expansion union, no
// semantic merge, no endnote augmentation (spec.md §4.5 step 5).
func (r *Retriever) firmPhraseResult(phrase string) []corpus.RetrievedPassage {
	ids := r.store.ChunksForTerm(phrase)
	if len(ids) > r.cfg.MaxRetrieved {
		ids = ids[:r.cfg.MaxRetrieved]
	}
	passages := make([]corpus.RetrievedPassage, 0, len(ids))
	for _, id := range ids {
		text, err := r.store.ChunkText(id)
		if err != nil {
			r.logger.Warn("firm-phrase index references missing chunk", "chunk_id", id, "error", err)
			continue
		}
		wc, _ := r.store.ChunkWordCount(id)
		passages = append(passages, corpus.RetrievedPassage{
			ChunkID:   id,
			Text:      text,
			SourceTag: corpus.SourceKeyword,
			WordCount: wc,
		})
	}
	return passages
}

// augmentWithEndnotes expands a sparse keyword result with every
// endnote cited by a keyword chunk, in chunk-then-citation order.
func (r *Retriever) augmentWithEndnotes(passages []corpus.RetrievedPassage, keywordIDs []string, seen map[string]bool) []corpus.RetrievedPassage {
	for _, chunkID := range keywordIDs {
		for _, endnoteID := range r.store.EndnotesForChunk(chunkID) {
			if seen[endnoteID] {
				continue
			}
			seen[endnoteID] = true
			text, err := r.store.EndnoteText(endnoteID)
			if err != nil {
				r.logger.Warn("chunk cites missing endnote", "endnote_id", endnoteID, "error", err)
				continue
			}
			passages = append(passages, corpus.RetrievedPassage{
				ChunkID:   endnoteID,
				Text:      text,
				SourceTag: corpus.SourceEndnote,
			})
		}
	}
	return passages
}
