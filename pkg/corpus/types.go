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

// Package corpus defines the shared, immutable data model produced by
// offline tooling and consumed throughout the query path: Chunk,
// Endnote, and the RetrievedPassage/QueryType values derived per query.
package corpus

// Chunk is an immutable passage of corpus text produced offline.
type Chunk struct {
	ID              string `json:"chunk_id"`
	Text            string `json:"text"`
	ApproxWordCount int    `json:"approx_word_count"`
}

// Endnote is an immutable citation-like passage linked to one or more
// chunks.
type Endnote struct {
	ID              string   `json:"endnote_id"`
	Text            string   `json:"text"`
	CitedByChunkIDs []string `json:"cited_by_chunk_ids,omitempty"`
}

// SourceTag identifies how a passage entered a retrieval result.
type SourceTag string

const (
	SourceKeyword  SourceTag = "keyword"
	SourceSemantic SourceTag = "semantic"
	SourceEndnote  SourceTag = "endnote"
)

// RetrievedPassage is a chunk or endnote surfaced by the Retriever for a
// specific query, annotated with how it was found and, once
// ChunkProcessor has partitioned it, which period/region bucket it fell
// into.
type RetrievedPassage struct {
	ChunkID   string
	Text      string
	Score     float64
	SourceTag SourceTag
	Period    string
	Region    string
	WordCount int
}

// QueryType is the strategy QueryRouter selects for a question.
type QueryType string

const (
	QueryEvent       QueryType = "EVENT"
	QueryPeriodTopic QueryType = "PERIOD_TOPIC"
	QueryGeoTopic    QueryType = "GEO_TOPIC"
	QuerySmallTopic  QueryType = "SMALL_TOPIC"
)
