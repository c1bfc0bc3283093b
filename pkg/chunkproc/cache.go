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

package chunkproc

import (
	"encoding/json"
	"fmt"
	"os"
)

// Cache is the optional read-through deduplication cache of spec.md
// §6 (deduplicated_cache.json): a precomputed surviving chunk-ID set
// per high-cardinality term, built by offline tooling. It is a
// performance aid only, never a correctness source — a miss, or a nil
// Cache, always falls back to live deduplication, so output is
// identical whether or not the cache is present.
type Cache struct {
	byTerm map[string]map[string]bool
}

// LoadCache reads a deduplicated_cache.json file shaped as
// {term: [chunk_id, ...]}. An empty path is not an error: it returns
// a nil Cache, which DeduplicateFor treats identically to a cache
// with no entry for any term.
func LoadCache(path string) (*Cache, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chunkproc: load dedup cache: %w", err)
	}
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("chunkproc: parse dedup cache: %w", err)
	}
	byTerm := make(map[string]map[string]bool, len(raw))
	for term, ids := range raw {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		byTerm[term] = set
	}
	return &Cache{byTerm: byTerm}, nil
}
