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
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/kadirpekel/ledgerlens/pkg/config/provider"
)

// Loader reads and decodes configuration from a Provider once at
// startup. Config is built once and threaded explicitly into every
// component constructor (spec.md §5's "no ambient/global config
// state") — there is no reload path.
type Loader struct {
	provider provider.Provider
}

// NewLoader creates a Loader reading from p.
func NewLoader(p provider.Provider) *Loader {
	return &Loader{provider: p}
}

// Load reads the config file, ignoring a missing .env file (it is an
// optional convenience for local development), expands environment
// variables, decodes into Config, and applies defaults and validation.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	raw, err := l.provider.Load(ctx)
	if err != nil {
		return nil, err
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	decoded, _ = expandEnvVarsDeep(decoded).(map[string]interface{})

	var cfg Config
	decoderCfg := &mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	}
	decoder, err := mapstructure.NewDecoder(decoderCfg)
	if err != nil {
		return nil, fmt.Errorf("build config decoder: %w", err)
	}
	if err := decoder.Decode(decoded); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
