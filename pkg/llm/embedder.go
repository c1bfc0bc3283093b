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

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedder satisfies vectorsearch.Embedder using the same Gemini
// backend LlmClient talks to. It is a default, not a requirement:
// spec.md leaves the embedding model an operator choice, and any other
// vectorsearch.Embedder implementation can be substituted at wiring
// time in cmd/ledgerlens.
type Embedder struct {
	genai *genai.Client
	model string
}

// EmbedderConfig configures Embedder.
type EmbedderConfig struct {
	APIKey string
	Model  string
}

// NewEmbedder creates an Embedder. It fails fatally if no API key is
// configured, matching Client's AuthFailure behavior.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, &Error{Kind: AuthFailure, Message: "no API key configured"}
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, &Error{Kind: AuthFailure, Message: "failed to create genai client", Err: err}
	}
	return &Embedder{genai: client, model: cfg.Model}, nil
}

// Embed turns text into the vector VectorSearch searches with.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	resp, err := e.genai.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("llm: embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("llm: embed content: empty response")
	}
	return resp.Embeddings[0].Values, nil
}
