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

// Package vectorsearch wraps whichever vector database backs semantic
// retrieval behind the single contract the rest of the system is
// allowed to depend on: semantic_search(text, k) -> ordered
// (chunk_id, score) pairs (spec.md §4.4). The embedding model and the
// vector database itself stay opaque behind this package; callers
// never see a vector.
package vectorsearch

import (
	"context"
	"errors"
	"fmt"
)

// Match is one hit returned by a semantic search. Score is monotone:
// higher means closer. Its scale is provider-specific and otherwise
// opaque — callers compare Matches from the same query only.
type Match struct {
	ChunkID string
	Score   float64
}

// ErrUnavailable is returned when the backing vector store could not
// be reached. The Retriever catches this specific sentinel (via
// errors.Is) to degrade to keyword-only search rather than fail the
// query (spec.md §4.5, §7).
var ErrUnavailable = errors.New("vectorsearch: backend unavailable")

// Embedder turns query text into the vector the backend searches
// with. The embedding model is explicitly out of scope for this
// system (spec.md §1 Non-goals) — Embedder is the seam where an
// operator plugs in whatever model served the offline corpus
// embedding, and is never implemented by this package itself.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Provider is implemented by each concrete vector-database backend.
type Provider interface {
	// Search returns up to k matches for vector, ordered by
	// descending score. It returns an error wrapping ErrUnavailable
	// when the backend cannot be reached.
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
	Close() error
}

// VectorSearch is the semantic_search(text, k) entry point used
// throughout the query path.
type VectorSearch struct {
	provider Provider
	embedder Embedder
}

// New builds a VectorSearch over provider using embedder to turn
// query text into vectors.
func New(provider Provider, embedder Embedder) *VectorSearch {
	return &VectorSearch{provider: provider, embedder: embedder}
}

// Search embeds text and returns the top k chunks by similarity. A
// genuine backend failure is wrapped so errors.Is(err, ErrUnavailable)
// lets the Retriever degrade to keyword-only. Cancellation and
// deadline expiry are distinct categories (spec.md §7): they abort the
// job instead and are returned untouched, never folded into
// ErrUnavailable.
func (v *VectorSearch) Search(ctx context.Context, text string, k int) ([]Match, error) {
	vec, err := v.embedder.Embed(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: embed query: %v", ErrUnavailable, err)
	}

	matches, err := v.provider.Search(ctx, vec, k)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return matches, nil
}

// Close releases the underlying provider's resources.
func (v *VectorSearch) Close() error {
	return v.provider.Close()
}
