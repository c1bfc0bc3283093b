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

package main

import (
	"context"
	"fmt"

	"github.com/kadirpekel/ledgerlens/pkg/config"
	"github.com/kadirpekel/ledgerlens/pkg/config/provider"
)

// ValidateCmd checks that a config file parses and satisfies every
// invariant SetDefaults/Validate enforce, without starting any server.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	p, err := provider.NewFileProvider(cli.Config)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := config.NewLoader(p).Load(context.Background()); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Printf("%s is valid\n", cli.Config)
	return nil
}
