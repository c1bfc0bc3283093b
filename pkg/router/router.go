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

// Package router picks the processing strategy for a question after
// retrieval (spec.md §4.7): the first matching rule wins.
package router

import (
	"regexp"
	"strings"

	"github.com/kadirpekel/ledgerlens/pkg/chunkproc"
	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

// namedEvents is a small fixed lexicon of events recognized by name
// alone, without a trailing year (spec.md §4.7's "named event from a
// small lexicon").
var namedEvents = []string{
	"black friday", "black thursday", "black monday", "long depression",
	"tulip mania", "south sea bubble", "great depression",
}

var eventYearPattern = regexp.MustCompile(`(?i)\b(panic|crisis|crash|collapse)\s+of\s+\d{4}\b`)

// Config holds the numeric tunable LARGE_THRESHOLD (spec.md §6).
type Config struct {
	LargeThreshold int
}

// Router classifies a question into a QueryType.
type Router struct {
	cfg Config
}

// New builds a Router.
func New(cfg Config) *Router {
	return &Router{cfg: cfg}
}

// Route applies the first-match-wins rules of spec.md §4.7. It must
// be called after retrieval, since the size-based rule depends on the
// retrieved passage count.
func (r *Router) Route(question string, retrievedCount int) corpus.QueryType {
	if isEventQuestion(question) {
		return corpus.QueryEvent
	}
	if retrievedCount > r.cfg.LargeThreshold {
		return corpus.QueryPeriodTopic
	}
	if chunkproc.GeographicTermCount(question) >= 2 {
		return corpus.QueryGeoTopic
	}
	return corpus.QuerySmallTopic
}

func isEventQuestion(question string) bool {
	if eventYearPattern.MatchString(question) {
		return true
	}
	lower := strings.ToLower(question)
	for _, name := range namedEvents {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}
