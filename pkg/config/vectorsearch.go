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

package config

import "fmt"

// VectorProviderType identifies the vector search backend.
type VectorProviderType string

const (
	// VectorProviderChromem is an embedded, zero-config vector store.
	// Best for development and tests.
	VectorProviderChromem VectorProviderType = "chromem"

	// VectorProviderQdrant talks to an external Qdrant instance.
	VectorProviderQdrant VectorProviderType = "qdrant"
)

// VectorSearchConfig configures VectorSearch.
type VectorSearchConfig struct {
	// Provider selects the backend.
	Provider VectorProviderType `yaml:"provider,omitempty"`

	// Chromem configures the embedded provider.
	Chromem *ChromemConfig `yaml:"chromem,omitempty"`

	// Qdrant configures the external provider.
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// ChromemConfig configures the embedded chromem-go provider.
type ChromemConfig struct {
	// PersistPath stores the embedded DB on disk; empty means in-memory.
	PersistPath string `yaml:"persist_path,omitempty"`

	// Collection is the chromem-go collection name holding the corpus.
	Collection string `yaml:"collection,omitempty"`
}

// QdrantConfig configures the external Qdrant provider.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
	Collection string `yaml:"collection"`
	UseTLS     bool   `yaml:"use_tls,omitempty"`
}

// Validate checks that the selected provider has the config it needs.
func (c *VectorSearchConfig) Validate() error {
	switch c.Provider {
	case VectorProviderChromem, "":
		return nil
	case VectorProviderQdrant:
		if c.Qdrant == nil || c.Qdrant.Collection == "" {
			return fmt.Errorf("config: vector_search.qdrant.collection is required for provider %q", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("config: unknown vector_search.provider %q", c.Provider)
	}
}
