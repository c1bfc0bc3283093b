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

package vectorsearch

import (
	"context"
	"fmt"
	"os"

	"github.com/philippgille/chromem-go"
)

// ChromemProvider is the embedded, zero-external-dependency backend
// suited to development and small single-process deployments. It
// keeps the corpus's precomputed embeddings in memory with optional
// gzip-compressed file persistence.
type ChromemProvider struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// ChromemProviderConfig configures ChromemProvider.
type ChromemProviderConfig struct {
	PersistPath string
	Collection  string
}

// NewChromemProvider opens the chromem database persisted at
// cfg.PersistPath when that path exists; otherwise (or with no
// PersistPath) it starts an empty in-memory database that is not
// written to disk. It then gets or creates cfg.Collection.
func NewChromemProvider(cfg ChromemProviderConfig) (*ChromemProvider, error) {
	var db *chromem.DB

	if cfg.PersistPath != "" {
		if _, err := os.Stat(cfg.PersistPath); err == nil {
			loaded, err := chromem.NewPersistentDB(cfg.PersistPath, true)
			if err != nil {
				return nil, fmt.Errorf("%w: open chromem db %q: %v", ErrUnavailable, cfg.PersistPath, err)
			}
			db = loaded
		} else {
			db = chromem.NewDB()
		}
	} else {
		db = chromem.NewDB()
	}

	identityEmbed := func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("vectorsearch: chromem collection queried by text, not by precomputed vector")
	}

	col, err := db.GetOrCreateCollection(cfg.Collection, nil, identityEmbed)
	if err != nil {
		return nil, fmt.Errorf("%w: get collection %q: %v", ErrUnavailable, cfg.Collection, err)
	}

	return &ChromemProvider{db: db, collection: col}, nil
}

// Search queries the collection with a precomputed vector.
func (p *ChromemProvider) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	results, err := p.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		chunkID := r.ID
		if v, ok := r.Metadata["chunk_id"]; ok && v != "" {
			chunkID = v
		}
		matches = append(matches, Match{ChunkID: chunkID, Score: float64(r.Similarity)})
	}
	return matches, nil
}

// Close is a no-op: chromem-go persists synchronously on write and
// holds no connection to release.
func (p *ChromemProvider) Close() error {
	return nil
}

var _ Provider = (*ChromemProvider)(nil)
