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

	"github.com/qdrant/go-client/qdrant"
)

// QdrantProvider is the external, production-scale backend: a
// dedicated Qdrant deployment reachable over gRPC.
type QdrantProvider struct {
	client     *qdrant.Client
	collection string
}

// QdrantProviderConfig configures QdrantProvider.
type QdrantProviderConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// NewQdrantProvider dials cfg.Host:cfg.Port. Connection errors at
// dial time are not retried here — they surface as ErrUnavailable
// the first time Search is attempted instead, per the cooperative
// blocking-point model of spec.md §5 (dialing is not a suspension
// point).
func NewQdrantProvider(cfg QdrantProviderConfig) (*QdrantProvider, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("vectorsearch: qdrant collection is required")
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: dial qdrant %s:%d: %v", ErrUnavailable, cfg.Host, cfg.Port, err)
	}

	return &QdrantProvider{client: client, collection: cfg.Collection}, nil
}

// Search issues a single-vector nearest-neighbor query.
func (p *QdrantProvider) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	req := &qdrant.SearchPoints{
		CollectionName: p.collection,
		Vector:         vector,
		Limit:          uint64(k),
		WithPayload:    qdrant.NewWithPayload(true),
	}

	result, err := p.client.GetPointsClient().Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	matches := make([]Match, 0, len(result.GetResult()))
	for _, point := range result.GetResult() {
		chunkID := point.Id.GetUuid()
		if chunkID == "" {
			chunkID = fmt.Sprint(point.Id.GetNum())
		}
		if payload := point.GetPayload(); payload != nil {
			if v, ok := payload["chunk_id"]; ok {
				chunkID = v.GetStringValue()
			}
		}
		matches = append(matches, Match{ChunkID: chunkID, Score: float64(point.GetScore())})
	}
	return matches, nil
}

// Close releases the gRPC connection.
func (p *QdrantProvider) Close() error {
	return p.client.Close()
}

var _ Provider = (*QdrantProvider)(nil)
