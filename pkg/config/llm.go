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

import "time"

// LLMProvider identifies the LLM backend. The core only ever wires one
// provider at a time (spec.md treats the LLM as a single external
// collaborator behind one `generate` contract).
type LLMProvider string

const (
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig configures LlmClient.
type LLMConfig struct {
	// Provider selects the backend (currently only "gemini").
	Provider LLMProvider `yaml:"provider,omitempty"`

	// Model is the model identifier (e.g. "gemini-2.0-flash").
	Model string `yaml:"model"`

	// APIKey authenticates against the provider. Supports ${VAR}
	// expansion; absence is a fatal AuthFailure at init (spec.md §7).
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the default API endpoint (for testing against a
	// local stub).
	BaseURL string `yaml:"base_url,omitempty"`

	// MaxRetries bounds LlmClient's retry of RateLimited/Transient
	// errors (MAX_RETRIES, default 3).
	MaxRetries int `yaml:"max_retries,omitempty"`

	// RetryBaseDelay is the base exponential-backoff delay.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay,omitempty"`
}
