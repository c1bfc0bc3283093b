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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

type fakeProvider struct {
	matches []Match
	err     error
}

func (f fakeProvider) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	return f.matches, f.err
}

func (f fakeProvider) Close() error { return nil }

func TestSearchReturnsOrderedMatches(t *testing.T) {
	want := []Match{{ChunkID: "c1", Score: 0.9}, {ChunkID: "c2", Score: 0.4}}
	vs := New(fakeProvider{matches: want}, fakeEmbedder{vec: []float32{0.1, 0.2}})

	got, err := vs.Search(context.Background(), "panic of 1907", 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSearchWrapsEmbedFailureAsUnavailable(t *testing.T) {
	vs := New(fakeProvider{}, fakeEmbedder{err: errors.New("model down")})

	_, err := vs.Search(context.Background(), "panic of 1907", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSearchWrapsProviderFailureAsUnavailable(t *testing.T) {
	vs := New(fakeProvider{err: errors.New("connection refused")}, fakeEmbedder{vec: []float32{0.1}})

	_, err := vs.Search(context.Background(), "panic of 1907", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSearchPropagatesCancellationWithoutWrapping(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	vs := New(fakeProvider{err: context.Canceled}, fakeEmbedder{vec: []float32{0.1}})

	_, err := vs.Search(ctx, "panic of 1907", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestSearchPropagatesDeadlineExceededWithoutWrapping(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	vs := New(fakeProvider{err: context.DeadlineExceeded}, fakeEmbedder{vec: []float32{0.1}})

	_, err := vs.Search(ctx, "panic of 1907", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrUnavailable)
}
