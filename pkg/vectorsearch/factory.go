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
	"fmt"

	"github.com/kadirpekel/ledgerlens/pkg/config"
)

// NewProvider builds the configured Provider from cfg.
func NewProvider(cfg config.VectorSearchConfig) (Provider, error) {
	switch cfg.Provider {
	case config.VectorProviderChromem:
		chromemCfg := ChromemProviderConfig{Collection: "corpus"}
		if cfg.Chromem != nil {
			chromemCfg.PersistPath = cfg.Chromem.PersistPath
			if cfg.Chromem.Collection != "" {
				chromemCfg.Collection = cfg.Chromem.Collection
			}
		}
		return NewChromemProvider(chromemCfg)

	case config.VectorProviderQdrant:
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("vectorsearch: qdrant configuration is required")
		}
		return NewQdrantProvider(QdrantProviderConfig{
			Host:       cfg.Qdrant.Host,
			Port:       cfg.Qdrant.Port,
			APIKey:     cfg.Qdrant.APIKey,
			UseTLS:     cfg.Qdrant.UseTLS,
			Collection: cfg.Qdrant.Collection,
		})

	default:
		return nil, fmt.Errorf("vectorsearch: unknown provider %q", cfg.Provider)
	}
}
