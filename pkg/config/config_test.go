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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Indices: IndicesConfig{
			IndicesPath:         "testdata/indices.json",
			ChunksPath:          "testdata/chunks.json",
			EndnotesPath:        "testdata/endnotes.json",
			ChunkToEndnotesPath: "testdata/chunk_to_endnotes.json",
		},
		LLM: LLMConfig{APIKey: "secret"},
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.SetDefaults()

	assert.Equal(t, 50, cfg.Retrieval.KSem)
	assert.Equal(t, 10, cfg.Retrieval.SparseThreshold)
	assert.Equal(t, 200, cfg.Retrieval.MaxRetrieved)
	assert.Equal(t, 100, cfg.Retrieval.LargeThreshold)
	assert.Equal(t, 150_000, cfg.Retrieval.MaxWordsPerRequest)
	assert.Equal(t, 10, cfg.RateGate.Concurrency)
	assert.Equal(t, 5, cfg.Review.MaxIterations)
	assert.Equal(t, 7*time.Minute, cfg.Job.Deadline)
	assert.Equal(t, LLMProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, VectorProviderChromem, cfg.VectorSearch.Provider)
}

func TestValidateRequiresIndices(t *testing.T) {
	cfg := Config{LLM: LLMConfig{APIKey: "x"}}
	cfg.SetDefaults()
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""
	cfg.SetDefaults()
	require.Error(t, cfg.Validate())
}

func TestValidateQdrantRequiresCollection(t *testing.T) {
	cfg := validConfig()
	cfg.VectorSearch.Provider = VectorProviderQdrant
	cfg.SetDefaults()
	require.Error(t, cfg.Validate())

	cfg.VectorSearch.Qdrant = &QdrantConfig{Collection: "corpus"}
	require.NoError(t, cfg.Validate())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LEDGERLENS_TEST_VAR", "value")
	assert.Equal(t, "value", expandEnvVars("${LEDGERLENS_TEST_VAR}"))
	assert.Equal(t, "value", expandEnvVars("$LEDGERLENS_TEST_VAR"))
	assert.Equal(t, "fallback", expandEnvVars("${LEDGERLENS_UNSET_VAR:-fallback}"))
}
