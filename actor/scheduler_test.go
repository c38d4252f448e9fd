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

func TestScheduleOnce(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}))
	require.NoError(t, err)

	_, err = sys.ScheduleOnce(NewMessage("later", 1), id, 30*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return received.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// one-shot: nothing else arrives
	time.Sleep(100 * time.Millisecond)
	assert.EqualValues(t, 1, received.Load())
}

func TestScheduleOnceCancel(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}))
	require.NoError(t, err)

	handle, err := sys.ScheduleOnce(NewMessage("never", 1), id, 200*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, sys.CancelTimer(handle))

	time.Sleep(350 * time.Millisecond)
	assert.EqualValues(t, 0, received.Load())
}

func TestScheduleAtFixedRate(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}))
	require.NoError(t, err)

	handle, err := sys.ScheduleAtFixedRate(NewMessage("tick", 1), id, 20*time.Millisecond, 20*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return received.Load() >= 3
	}, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, sys.CancelTimer(handle))

	// after cancel the counter settles
	settled := received.Load()
	time.Sleep(150 * time.Millisecond)
	assert.LessOrEqual(t, received.Load(), settled+1)
}

func TestScheduleViaAlias(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	_, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}), WithAlias("timer-target"))
	require.NoError(t, err)

	_, err = sys.ScheduleOnce(NewMessage("later", 1), "timer-target", 30*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return received.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSchedulerStoppedErrors(t *testing.T) {
	sys := newTestSystem(t)
	sys.scheduler.Stop(sys.hookContext())

	_, err := sys.ScheduleOnce(NewMessage(nil, 1), NewID(), time.Millisecond)
	assert.Error(t, err)
}
