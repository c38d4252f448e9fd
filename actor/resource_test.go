// MIT License
//
// Copyright (c) 2026 Kestrel Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestResourceActorProcessesOffWorker(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		// blocking here is legal for a resource actor
		time.Sleep(10 * time.Millisecond)
		received.Inc()
	}), WithResource())
	require.NoError(t, err)

	cell, ok := sys.registry.cell(id)
	require.True(t, ok)
	require.True(t, cell.IsResource())

	for i := 0; i < 5; i++ {
		require.NoError(t, sys.Tell(i, 1, id))
	}
	require.Eventually(t, func() bool {
		return received.Load() == 5
	}, 3*time.Second, 10*time.Millisecond)
}

func TestResourceActorMutualExclusion(t *testing.T) {
	sys := newTestSystem(t)

	inFlight := atomic.NewInt64(0)
	overlapped := atomic.NewBool(false)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		if inFlight.Inc() > 1 {
			overlapped.Store(true)
		}
		time.Sleep(time.Millisecond)
		received.Inc()
		inFlight.Dec()
	}), WithResource())
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, sys.Tell(i, 1, id))
	}
	require.Eventually(t, func() bool {
		return received.Load() == 50
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, overlapped.Load())
}

func TestWatchdogReportsResponsiveWorkers(t *testing.T) {
	sys := newTestSystem(t, WithWatchdog(100*time.Millisecond))

	reports := make(chan *WatchdogReport, 8)
	sys.OnWatchdogReport(func(report *WatchdogReport) {
		select {
		case reports <- report:
		default:
		}
	})

	select {
	case report := <-reports:
		assert.Empty(t, report.NonResponsive)
		assert.GreaterOrEqual(t, report.Round, uint64(1))
	case <-time.After(3 * time.Second):
		t.Fatal("no watchdog report")
	}
	assert.Empty(t, sys.NonResponsiveWorkers())
}

func TestWatchdogFlagsBlockedWorker(t *testing.T) {
	sys := newTestSystem(t, WithWatchdog(100*time.Millisecond), WithParallelism(2))

	// wedge one worker with a handler that never returns while the test runs
	release := make(chan struct{})
	defer close(release)
	blocker, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		<-release
	}))
	require.NoError(t, err)
	require.NoError(t, sys.Tell(nil, 1, blocker))

	require.Eventually(t, func() bool {
		return len(sys.NonResponsiveWorkers()) > 0
	}, 5*time.Second, 50*time.Millisecond)
}
