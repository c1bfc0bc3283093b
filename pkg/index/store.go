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

// Package index provides read-only access to the offline-built keyword
// index, the chunk text view, and the endnote cross-reference maps.
//
// Store is loaded once at startup from the artifacts in spec.md §6
// (indices.json, the chunks view, endnotes.json, chunk_to_endnotes.json)
// and is immutable thereafter: all reads are safe from any number of
// concurrent callers with no synchronization.
package index

import (
	"encoding/json"
	"fmt"
	"os"
)

// chunkRecord is the on-disk shape of one chunks-view entry.
type chunkRecord struct {
	Text            string `json:"text"`
	ApproxWordCount int    `json:"approx_word_count"`
}

// endnoteRecord is the on-disk shape of one endnotes.json entry.
type endnoteRecord struct {
	ID   string `json:"endnote_id"`
	Text string `json:"text"`
}

// indicesFile is the on-disk shape of indices.json.
type indicesFile struct {
	Version            string              `json:"version"`
	TermToChunks       map[string][]string `json:"term_to_chunks"`
	EntityAssociations map[string]any      `json:"entity_associations,omitempty"`
}

// Store is the immutable, read-only index over the corpus artifacts.
type Store struct {
	termToChunks     map[string][]string
	chunks           map[string]chunkRecord
	endnotes         map[string]string
	chunkToEndnotes  map[string][]string
	// entityAssociations is parsed but unused by the core (spec.md §9 Open
	// Questions); kept so a future retrieval signal can be added without
	// re-touching the loader.
	entityAssociations map[string]any
}

// Load reads the four artifacts from disk and builds an immutable Store.
// Any malformed or missing file is a fatal init error — the core never
// falls back to a partial index.
func Load(indicesPath, chunksPath, endnotesPath, chunkToEndnotesPath string) (*Store, error) {
	var idx indicesFile
	if err := readJSON(indicesPath, &idx); err != nil {
		return nil, fmt.Errorf("index: load indices: %w", err)
	}

	var chunkList map[string]chunkRecord
	if err := readJSON(chunksPath, &chunkList); err != nil {
		return nil, fmt.Errorf("index: load chunks: %w", err)
	}

	var endnoteList []endnoteRecord
	if err := readJSON(endnotesPath, &endnoteList); err != nil {
		return nil, fmt.Errorf("index: load endnotes: %w", err)
	}
	endnotes := make(map[string]string, len(endnoteList))
	for _, e := range endnoteList {
		endnotes[e.ID] = e.Text
	}

	var chunkToEndnotes map[string][]string
	if err := readJSON(chunkToEndnotesPath, &chunkToEndnotes); err != nil {
		return nil, fmt.Errorf("index: load chunk_to_endnotes: %w", err)
	}

	return &Store{
		termToChunks:       idx.TermToChunks,
		chunks:             chunkList,
		endnotes:           endnotes,
		chunkToEndnotes:    chunkToEndnotes,
		entityAssociations: idx.EntityAssociations,
	}, nil
}

// NewForTest builds a Store directly from in-memory maps, bypassing disk
// I/O, for use by component tests and fixtures.
func NewForTest(termToChunks map[string][]string, chunks map[string]struct {
	Text            string
	ApproxWordCount int
}, endnotes map[string]string, chunkToEndnotes map[string][]string) *Store {
	recs := make(map[string]chunkRecord, len(chunks))
	for id, c := range chunks {
		recs[id] = chunkRecord{Text: c.Text, ApproxWordCount: c.ApproxWordCount}
	}
	return &Store{
		termToChunks:    termToChunks,
		chunks:          recs,
		endnotes:        endnotes,
		chunkToEndnotes: chunkToEndnotes,
	}
}

// ChunksForTerm returns the ordered chunk ids indexed under a canonical
// term, or nil if the term is absent.
func (s *Store) ChunksForTerm(canonicalTerm string) []string {
	return s.termToChunks[canonicalTerm]
}

// HasTerm reports whether canonicalTerm is present in the keyword index
// at all (used by Retriever's firm-phrase rule to detect indexed
// multi-word entities).
func (s *Store) HasTerm(canonicalTerm string) bool {
	_, ok := s.termToChunks[canonicalTerm]
	return ok
}

// ChunkText returns the text of chunkID, or a *NotFoundError if absent.
func (s *Store) ChunkText(chunkID string) (string, error) {
	rec, ok := s.chunks[chunkID]
	if !ok {
		return "", &NotFoundError{Kind: "chunk", ID: chunkID}
	}
	return rec.Text, nil
}

// ChunkWordCount returns the precomputed approximate word count of
// chunkID, or a *NotFoundError if absent.
func (s *Store) ChunkWordCount(chunkID string) (int, error) {
	rec, ok := s.chunks[chunkID]
	if !ok {
		return 0, &NotFoundError{Kind: "chunk", ID: chunkID}
	}
	return rec.ApproxWordCount, nil
}

// EndnotesForChunk returns the endnote ids cited by chunkID (possibly
// empty).
func (s *Store) EndnotesForChunk(chunkID string) []string {
	return s.chunkToEndnotes[chunkID]
}

// EndnoteText returns the text of endnoteID, or a *NotFoundError if
// absent.
func (s *Store) EndnoteText(endnoteID string) (string, error) {
	text, ok := s.endnotes[endnoteID]
	if !ok {
		return "", &NotFoundError{Kind: "endnote", ID: endnoteID}
	}
	return text, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
