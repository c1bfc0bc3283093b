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

package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAdmitsWithinBudget(t *testing.T) {
	g := New(4, 1000)
	ctx := context.Background()

	h, err := g.Acquire(ctx, 100)
	require.NoError(t, err)
	h.Release(80)
}

func TestFullReportsFalseUnderBudget(t *testing.T) {
	g := New(4, 1000)
	assert.False(t, g.Full())

	h, err := g.Acquire(context.Background(), 10)
	require.NoError(t, err)
	defer h.Release(10)
	assert.False(t, g.Full())
}

func TestFullReportsTrueAtRPMBudget(t *testing.T) {
	g := New(1, 10000)
	h, err := g.Acquire(context.Background(), 10)
	require.NoError(t, err)
	defer h.Release(10)

	assert.True(t, g.Full())
}

func TestFullNeverBlocksOrReserves(t *testing.T) {
	g := New(1, 10000)
	h, err := g.Acquire(context.Background(), 10)
	require.NoError(t, err)
	defer h.Release(10)

	assert.True(t, g.Full())
	assert.True(t, g.Full(), "Full must not consume the slot it reports as exhausted")
}

func TestAcquireBlocksBeyondRPM(t *testing.T) {
	g := New(1, 10000)
	ctx := context.Background()

	h, err := g.Acquire(ctx, 10)
	require.NoError(t, err)

	blocked := make(chan struct{})
	go func() {
		ctx2, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		_, err := g.Acquire(ctx2, 10)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		close(blocked)
	}()

	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("second acquire should have blocked on RPM_MAX=1 and then timed out")
	}
	h.Release(10)
}

func TestReleaseSurplusFreesTpmBudgetImmediately(t *testing.T) {
	g := New(10, 100)
	ctx := context.Background()

	h1, err := g.Acquire(ctx, 100)
	require.NoError(t, err)
	h1.Release(10) // surplus of 90 returned immediately

	done := make(chan struct{})
	go func() {
		h2, err := g.Acquire(ctx, 50)
		require.NoError(t, err)
		h2.Release(50)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second acquire should have been admitted once surplus was released")
	}
}

// TestAcquireIsFIFO drives the gate with a token budget sized for
// exactly one in-flight request at a time: each waiter must release
// its full reservation (actual usage 0) before the next in line can
// be admitted, letting the test observe strict FIFO admission order.
func TestAcquireIsFIFO(t *testing.T) {
	g := New(1000, 10)
	ctx := context.Background()

	h, err := g.Acquire(ctx, 10)
	require.NoError(t, err)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			time.Sleep(time.Duration(i) * 10 * time.Millisecond)
			hi, err := g.Acquire(ctx, 10)
			require.NoError(t, err)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			hi.Release(0)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	h.Release(0)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestAcquireCancellationDequeuesWaiter(t *testing.T) {
	g := New(1, 100)
	ctx := context.Background()

	h, err := g.Acquire(ctx, 10)
	require.NoError(t, err)

	cancelCtx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := g.Acquire(cancelCtx, 10)
		errc <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled acquire should have returned")
	}

	h.Release(10)

	h2, err := g.Acquire(context.Background(), 10)
	require.NoError(t, err)
	h2.Release(10)
}
