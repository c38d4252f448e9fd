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
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/log"
)

func TestSystemStartShutdown(t *testing.T) {
	sys := NewActorSystem("lifecycle", WithLogger(log.DiscardLogger), WithParallelism(2))
	require.NoError(t, sys.Start(context.Background()))
	require.True(t, sys.isRunning())

	require.NoError(t, sys.Shutdown(context.Background(), true))
	require.NoError(t, sys.AwaitTermination(context.Background()))
	assert.False(t, sys.started.Load())
}

func TestAddActorBeforeStart(t *testing.T) {
	sys := NewActorSystem("cold", WithLogger(log.DiscardLogger))
	_, err := sys.AddActor(Func(nil))
	assert.ErrorIs(t, err, gerrors.ErrSystemNotStarted)
}

func TestSendAndReceive(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, sys.Tell(i, 1, id))
	}
	require.Eventually(t, func() bool {
		return received.Load() == 10
	}, time.Second, 5*time.Millisecond)
}

func TestPingPong(t *testing.T) {
	sys := newTestSystem(t)
	const rounds = 50

	var pID, qID ID
	pCount := atomic.NewInt64(0)
	qCount := atomic.NewInt64(0)
	done := make(chan struct{})

	var err error
	pID, err = sys.AddActor(Func(func(ctx *ReceiveContext) {
		if ctx.Message().Tag() != 1 {
			return
		}
		if n := pCount.Inc(); n >= rounds {
			close(done)
			return
		}
		ctx.Tell(nil, 2, qID)
	}), WithName("ping"))
	require.NoError(t, err)

	qID, err = sys.AddActor(Func(func(ctx *ReceiveContext) {
		if ctx.Message().Tag() != 2 {
			return
		}
		qCount.Inc()
		ctx.Tell(nil, 1, pID)
	}), WithName("pong"))
	require.NoError(t, err)

	require.NoError(t, sys.Tell(nil, 1, pID))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("ping-pong did not finish: p=%d q=%d", pCount.Load(), qCount.Load())
	}
	assert.EqualValues(t, rounds, pCount.Load())
	assert.EqualValues(t, rounds-1, qCount.Load())

	require.NoError(t, sys.Stop(pID))
	require.NoError(t, sys.Stop(qID))
	require.Eventually(t, func() bool {
		_, pLive := sys.registry.cell(pID)
		_, qLive := sys.registry.cell(qID)
		return !pLive && !qLive
	}, time.Second, 5*time.Millisecond)
}

func TestPerPairFIFO(t *testing.T) {
	sys := newTestSystem(t)
	rec := &recorder{}

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		rec.add(ctx.Message().Value())
	}))
	require.NoError(t, err)

	const total = 1000
	for i := 0; i < total; i++ {
		require.NoError(t, sys.Tell(i, 1, id))
	}

	require.Eventually(t, func() bool {
		return rec.len() == total
	}, 3*time.Second, 5*time.Millisecond)

	for i, value := range rec.snapshot() {
		require.Equal(t, i, value)
	}
}

func TestCellMutualExclusion(t *testing.T) {
	sys := newTestSystem(t, WithParallelism(4))

	inFlight := atomic.NewInt64(0)
	overlapped := atomic.NewBool(false)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		if inFlight.Inc() > 1 {
			overlapped.Store(true)
		}
		received.Inc()
		inFlight.Dec()
	}))
	require.NoError(t, err)

	const senders = 4
	const perSender = 250
	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				_ = sys.Tell(i, 1, id)
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return received.Load() == senders*perSender
	}, 3*time.Second, 5*time.Millisecond)
	assert.False(t, overlapped.Load(), "two messages were processed concurrently")
}

func TestAskRoundTrip(t *testing.T) {
	sys := newTestSystem(t)
	interaction := NewID()

	responder, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		ctx.Reply(ctx.Message().Value(), 2)
	}))
	require.NoError(t, err)

	msg := NewMessage("echo", 1, WithDest(responder), WithInteraction(interaction))
	reply, err := sys.Ask(context.Background(), msg, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "echo", reply.Value())
	assert.EqualValues(t, 2, reply.Tag())
	assert.Equal(t, interaction, reply.Interaction())
	assert.Equal(t, responder, reply.Source())
}

func TestAskTimeout(t *testing.T) {
	sys := newTestSystem(t)

	silent, err := sys.AddActor(Func(nil))
	require.NoError(t, err)

	msg := NewMessage("anyone there", 1, WithDest(silent))
	_, err = sys.Ask(context.Background(), msg, 50*time.Millisecond)
	assert.ErrorIs(t, err, gerrors.ErrRequestTimeout)
}

func TestDeadLetterKeepsFields(t *testing.T) {
	sys := newTestSystem(t)

	var mu sync.Mutex
	var letters []*DeadLetter
	sys.OnDeadLetter(func(letter *DeadLetter) {
		mu.Lock()
		letters = append(letters, letter)
		mu.Unlock()
	})

	unknown := NewID()
	interaction := NewID()
	msg := NewMessage("lost", 7,
		WithDest(unknown),
		WithInteraction(interaction),
		WithProtocol("proto"),
		WithDomain("domain"),
	)
	require.NoError(t, sys.Send(msg))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(letters) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	letter := letters[0]
	mu.Unlock()
	assert.Equal(t, "lost", letter.Message.Value())
	assert.EqualValues(t, 7, letter.Message.Tag())
	assert.Equal(t, unknown, letter.Message.Dest())
	assert.Equal(t, interaction, letter.Message.Interaction())
	assert.Equal(t, "proto", letter.Message.Protocol())
	assert.Equal(t, "domain", letter.Message.Domain())
	assert.EqualValues(t, 1, sys.Metric().DeadlettersCount())
}

func TestAliasRouting(t *testing.T) {
	sys := newTestSystem(t)
	received := atomic.NewInt64(0)

	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}), WithAlias("worker"))
	require.NoError(t, err)

	resolved, ok := sys.LookupAlias("worker")
	require.True(t, ok)
	assert.Equal(t, id, resolved)

	require.NoError(t, sys.SendViaAlias(NewMessage("job", 1), "worker"))
	require.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// unbound alias goes to dead letters
	before := sys.Metric().DeadlettersCount()
	require.NoError(t, sys.SendViaAlias(NewMessage("job", 1), "nobody"))
	require.Eventually(t, func() bool {
		return sys.Metric().DeadlettersCount() == before+1
	}, time.Second, 5*time.Millisecond)
}

func TestAliasDeterministicChoice(t *testing.T) {
	sys := newTestSystem(t)

	first, err := sys.AddActor(Func(nil))
	require.NoError(t, err)
	second, err := sys.AddActor(Func(nil))
	require.NoError(t, err)
	require.NoError(t, sys.SetAlias(first, "shared"))
	require.NoError(t, sys.SetAlias(second, "shared"))

	chosen, ok := sys.LookupAlias("shared")
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		again, ok := sys.LookupAlias("shared")
		require.True(t, ok)
		require.Equal(t, chosen, again)
	}
}

func TestPathLookup(t *testing.T) {
	sys := newTestSystem(t)

	parent, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		if ctx.Message().Tag() == 1 {
			_, err := ctx.AddChild(Func(nil), WithName("worker"))
			ctx.Err(err)
		}
	}), WithName("billing"))
	require.NoError(t, err)

	assert.Equal(t, "/user/billing", sys.PathOf(parent))
	resolved, ok := sys.GetActorFromPath("/user/billing")
	require.True(t, ok)
	assert.Equal(t, parent, resolved)

	require.NoError(t, sys.Tell(nil, 1, parent))
	require.Eventually(t, func() bool {
		_, ok := sys.GetActorFromPath("/user/billing/worker")
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestChildCreatedInPreStart(t *testing.T) {
	sys := newTestSystem(t)

	id, err := sys.AddActor(func() Actor {
		return &preStartSpawner{}
	}, WithName("mother"))
	require.NoError(t, err)

	cell, ok := sys.registry.cell(id)
	require.True(t, ok)
	assert.Len(t, cell.Children(), 1)
	_, ok = sys.GetActorFromPath("/user/mother/daughter")
	assert.True(t, ok)
}

type preStartSpawner struct{}

func (p *preStartSpawner) PreStart(ctx *Context) error {
	_, err := ctx.AddChild(Func(nil), WithName("daughter"))
	return err
}

func (p *preStartSpawner) Receive(*ReceiveContext) {}

func (p *preStartSpawner) PostStop(*Context) error {
	return nil
}

func TestInitializationFailure(t *testing.T) {
	sys := newTestSystem(t)

	var mu sync.Mutex
	var classes []string
	sys.RegisterErrorHandler(func(err error, classification string, id ID) {
		mu.Lock()
		classes = append(classes, classification)
		mu.Unlock()
	})

	_, err := sys.AddActor(func() Actor {
		return &failingStarter{}
	})
	require.ErrorIs(t, err, gerrors.ErrInitFailure)

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, classes, FailsafeInitialization)
	// the cell must not be registered
	assert.EqualValues(t, 0, sys.Metric().ActorsCount())
}

type failingStarter struct{}

func (f *failingStarter) PreStart(*Context) error {
	return gerrors.ErrInitFailure
}

func (f *failingStarter) Receive(*ReceiveContext) {}

func (f *failingStarter) PostStop(*Context) error {
	return nil
}

func TestKillDiscardsMailbox(t *testing.T) {
	sys := newTestSystem(t)

	release := make(chan struct{})
	received := atomic.NewInt64(0)
	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		if received.Inc() == 1 {
			<-release
		}
	}))
	require.NoError(t, err)

	// first message parks the cell, the rest pile up
	require.NoError(t, sys.Tell(nil, 1, id))
	require.Eventually(t, func() bool {
		return received.Load() == 1
	}, time.Second, 5*time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, sys.Tell(i, 1, id))
	}

	before := sys.Metric().DeadlettersCount()
	require.NoError(t, sys.Kill(id))
	close(release)

	require.Eventually(t, func() bool {
		_, live := sys.registry.cell(id)
		return !live
	}, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 1, received.Load())
	assert.GreaterOrEqual(t, sys.Metric().DeadlettersCount(), before+5)
}

func TestMetricSnapshot(t *testing.T) {
	sys := newTestSystem(t)

	_, err := sys.AddActor(Func(nil))
	require.NoError(t, err)
	_, err = sys.AddActor(Func(nil))
	require.NoError(t, err)

	metric := sys.Metric()
	assert.EqualValues(t, 2, metric.ActorsCount())
	assert.Len(t, metric.WorkerCounts(), 2)
}
