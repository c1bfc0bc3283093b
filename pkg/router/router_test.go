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

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kadirpekel/ledgerlens/pkg/corpus"
)

func TestRouteEventByYearPattern(t *testing.T) {
	r := New(Config{LargeThreshold: 100})
	assert.Equal(t, corpus.QueryEvent, r.Route("What caused the Panic of 1907?", 5))
}

func TestRouteEventByNamedLexicon(t *testing.T) {
	r := New(Config{LargeThreshold: 100})
	assert.Equal(t, corpus.QueryEvent, r.Route("Describe Black Friday's aftermath.", 5))
}

func TestRouteEventTakesPriorityOverSize(t *testing.T) {
	r := New(Config{LargeThreshold: 10})
	assert.Equal(t, corpus.QueryEvent, r.Route("Panic of 1907", 500))
}

func TestRoutePeriodTopicWhenRetrievedCountExceedsThreshold(t *testing.T) {
	r := New(Config{LargeThreshold: 100})
	assert.Equal(t, corpus.QueryPeriodTopic, r.Route("How did banking evolve?", 150))
}

func TestRouteGeoTopicWithTwoGazetteerTerms(t *testing.T) {
	r := New(Config{LargeThreshold: 100})
	assert.Equal(t, corpus.QueryGeoTopic, r.Route("Compare banking in Vienna and Frankfurt.", 5))
}

func TestRouteSmallTopicDefault(t *testing.T) {
	r := New(Config{LargeThreshold: 100})
	assert.Equal(t, corpus.QuerySmallTopic, r.Route("Who was Hohenemser?", 2))
}
