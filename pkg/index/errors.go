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

package index

import "fmt"

// NotFoundError is returned when a chunk or endnote id dereferences to
// nothing. A chunk-id NotFoundError surfacing from the happy path is an
// internal invariant violation (spec.md §7): every id in TermToChunks is
// supposed to resolve in the chunks store.
type NotFoundError struct {
	Kind string // "chunk" or "endnote"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("index: %s %q not found", e.Kind, e.ID)
}
