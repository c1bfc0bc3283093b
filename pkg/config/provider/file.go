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

// Package provider abstracts where configuration bytes come from, so
// Loader doesn't care about the transport.
package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Provider supplies raw config bytes.
type Provider interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileProvider loads config from a local file.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider reading from path.
func NewFileProvider(path string) (*FileProvider, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return &FileProvider{path: abs}, nil
}

// Load reads the config file contents.
func (p *FileProvider) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", p.path, err)
	}
	return data, nil
}
