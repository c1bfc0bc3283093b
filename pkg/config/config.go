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

// Package config provides configuration loading for ledgerlens.
//
// ledgerlens is config-first: a single YAML file plus environment
// variable overlays produces one immutable Config value, built once at
// startup in cmd/ledgerlens and threaded explicitly into every
// component constructor. There is no ambient mutable configuration
// state.
//
// Example config:
//
//	llm:
//	  provider: gemini
//	  model: gemini-2.0-flash
//	  api_key: ${GEMINI_API_KEY}
//
//	vector_search:
//	  provider: qdrant
//	  qdrant:
//	    host: localhost
//	    port: 6334
//	    collection: corpus
//
//	retrieval:
//	  k_sem: 50
//	  sparse_threshold: 10
//	  max_retrieved: 200
//
//	server:
//	  host: 0.0.0.0
//	  port: 8080
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the query engine.
type Config struct {
	// Indices points at the offline-built artifacts consumed by IndexStore.
	Indices IndicesConfig `yaml:"indices"`

	// LLM configures the single LLM provider used for generation.
	LLM LLMConfig `yaml:"llm"`

	// VectorSearch configures the semantic search backend.
	VectorSearch VectorSearchConfig `yaml:"vector_search"`

	// Retrieval holds the Retriever/ChunkProcessor/QueryRouter tunables.
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// RateGate configures the per-minute request/token budgets.
	RateGate RateGateConfig `yaml:"rate_gate"`

	// Review configures the AnswerReviewer loop.
	Review ReviewConfig `yaml:"review"`

	// Job configures per-job behavior (deadline, concurrency).
	Job JobConfig `yaml:"job"`

	// Server configures the HTTP surface.
	Server ServerConfig `yaml:"server"`

	// Logger configures structured logging.
	Logger LoggerConfig `yaml:"logger"`
}

// IndicesConfig locates the offline-built, read-only artifacts.
type IndicesConfig struct {
	// IndicesPath is the path to indices.json (term_to_chunks map).
	IndicesPath string `yaml:"indices_path"`

	// ChunksPath is the path to the chunk_id -> {text, approx_word_count}
	// view of the chunks store. In production this view is served by the
	// vector database's metadata; a flat JSON file is the fixture/offline
	// form used here so IndexStore has no direct vector-DB dependency.
	ChunksPath string `yaml:"chunks_path"`

	// EndnotesPath is the path to endnotes.json.
	EndnotesPath string `yaml:"endnotes_path"`

	// ChunkToEndnotesPath is the path to chunk_to_endnotes.json.
	ChunkToEndnotesPath string `yaml:"chunk_to_endnotes_path"`

	// DeduplicatedCachePath is the optional path to a precomputed
	// deduplicated-text cache. ChunkProcessor treats its absence as
	// equivalent to an empty cache; it is a performance aid only.
	DeduplicatedCachePath string `yaml:"deduplicated_cache_path,omitempty"`
}

// RetrievalConfig holds the numeric tunables named in spec.md §6.
type RetrievalConfig struct {
	// KSem is the number of semantic-search results requested (K_SEM).
	KSem int `yaml:"k_sem"`

	// SparseThreshold triggers endnote augmentation below this many
	// keyword hits (SPARSE_THRESHOLD).
	SparseThreshold int `yaml:"sparse_threshold"`

	// MaxRetrieved bounds the merged passage list (MAX_RETRIEVED).
	MaxRetrieved int `yaml:"max_retrieved"`

	// LargeThreshold routes to PERIOD_TOPIC above this retrieved count
	// (LARGE_THRESHOLD).
	LargeThreshold int `yaml:"large_threshold"`

	// MaxWordsPerRequest bounds a ChunkProcessor batch
	// (MAX_WORDS_PER_REQUEST).
	MaxWordsPerRequest int `yaml:"max_words_per_request"`
}

// RateGateConfig configures RateGate's per-minute budgets.
type RateGateConfig struct {
	// RPMMax is the max admitted requests per rolling minute (RPM_MAX).
	RPMMax int `yaml:"rpm_max"`

	// TPMMax is the max admitted tokens per rolling minute (TPM_MAX).
	TPMMax int `yaml:"tpm_max"`

	// Concurrency bounds outstanding LLM calls (LLM_CONCURRENCY).
	Concurrency int `yaml:"concurrency"`
}

// ReviewConfig configures AnswerReviewer.
type ReviewConfig struct {
	// MaxIterations bounds the review loop (MAX_REVIEW_ITERATIONS).
	MaxIterations int `yaml:"max_iterations"`
}

// JobConfig configures QueryEngine job lifecycle.
type JobConfig struct {
	// Deadline bounds total job processing time (JOB_DEADLINE).
	Deadline time.Duration `yaml:"deadline"`
}

// ServerConfig configures the HTTP job-submission surface.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LoggerConfig configures the process-wide logger.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// SetDefaults fills in the defaults from spec.md §6/§8 for any zero-valued
// field. Called once, after YAML parsing and env expansion, before
// Validate.
func (c *Config) SetDefaults() {
	if c.Retrieval.KSem == 0 {
		c.Retrieval.KSem = 50
	}
	if c.Retrieval.SparseThreshold == 0 {
		c.Retrieval.SparseThreshold = 10
	}
	if c.Retrieval.MaxRetrieved == 0 {
		c.Retrieval.MaxRetrieved = 200
	}
	if c.Retrieval.LargeThreshold == 0 {
		c.Retrieval.LargeThreshold = 100
	}
	if c.Retrieval.MaxWordsPerRequest == 0 {
		c.Retrieval.MaxWordsPerRequest = 150_000
	}
	if c.RateGate.RPMMax == 0 {
		c.RateGate.RPMMax = 60
	}
	if c.RateGate.TPMMax == 0 {
		c.RateGate.TPMMax = 1_000_000
	}
	if c.RateGate.Concurrency == 0 {
		c.RateGate.Concurrency = 10
	}
	if c.Review.MaxIterations == 0 {
		c.Review.MaxIterations = 5
	}
	if c.Job.Deadline == 0 {
		c.Job.Deadline = 7 * time.Minute
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "simple"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = LLMProviderGemini
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.LLM.RetryBaseDelay == 0 {
		c.LLM.RetryBaseDelay = time.Second
	}
	if c.VectorSearch.Provider == "" {
		c.VectorSearch.Provider = VectorProviderChromem
	}
}

// Validate checks invariants that SetDefaults cannot repair by itself.
func (c *Config) Validate() error {
	if c.Indices.IndicesPath == "" {
		return fmt.Errorf("config: indices.indices_path is required")
	}
	if c.Indices.ChunksPath == "" {
		return fmt.Errorf("config: indices.chunks_path is required")
	}
	if c.Indices.EndnotesPath == "" {
		return fmt.Errorf("config: indices.endnotes_path is required")
	}
	if c.Indices.ChunkToEndnotesPath == "" {
		return fmt.Errorf("config: indices.chunk_to_endnotes_path is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("config: llm.api_key is required (AuthFailure is fatal at init)")
	}
	if c.Retrieval.SparseThreshold < 0 || c.Retrieval.MaxRetrieved <= 0 {
		return fmt.Errorf("config: invalid retrieval tunables")
	}
	if c.RateGate.RPMMax <= 0 || c.RateGate.TPMMax <= 0 || c.RateGate.Concurrency <= 0 {
		return fmt.Errorf("config: rate_gate tunables must be positive")
	}
	if c.Review.MaxIterations <= 0 {
		return fmt.Errorf("config: review.max_iterations must be positive")
	}
	if c.Job.Deadline <= 0 {
		return fmt.Errorf("config: job.deadline must be positive")
	}
	return c.VectorSearch.Validate()
}
