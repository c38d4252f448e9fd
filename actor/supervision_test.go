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

// spawnFailingChild builds a parent with the given supervisor, lets it spawn
// one child from the factory and returns both identities.
func spawnFailingChild(t *testing.T, sys *ActorSystem, supervisor *Supervisor, factory Factory) (parent, child ID) {
	t.Helper()
	childC := make(chan ID, 1)

	parent, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		if ctx.Message().Tag() == 100 {
			id, err := ctx.AddChild(factory, WithName("fragile"))
			if err != nil {
				t.Errorf("spawn child: %v", err)
				return
			}
			childC <- id
		}
	}), WithSupervisor(supervisor))
	require.NoError(t, err)

	require.NoError(t, sys.Tell(nil, 100, parent))
	select {
	case child = <-childC:
	case <-time.After(time.Second):
		t.Fatal("child was not spawned")
	}
	return parent, child
}

func TestSupervisionRestartBound(t *testing.T) {
	sys := newTestSystem(t)

	factoryCalls := atomic.NewInt64(0)
	factory := func() Actor {
		factoryCalls.Inc()
		return &alwaysPanics{}
	}
	supervisor := NewSupervisor(WithRetry(3, time.Second))
	_, child := spawnFailingChild(t, sys, supervisor, factory)

	// watch the child from a separate actor
	terminated := atomic.NewInt64(0)
	watcher, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		switch ctx.Message().Tag() {
		case 200:
			ctx.Watch(child)
		case Terminated:
			if ctx.Message().Source() == child {
				terminated.Inc()
			}
		}
	}))
	require.NoError(t, err)
	require.NoError(t, sys.Tell(nil, 200, watcher))

	// hammer the child: every message makes the handler panic
	for i := 0; i < 10; i++ {
		require.NoError(t, sys.Tell(i, 1, child))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		_, live := sys.registry.cell(child)
		return !live
	}, 3*time.Second, 10*time.Millisecond)

	// initial creation plus at most maxRetries restarts
	assert.LessOrEqual(t, factoryCalls.Load(), int64(4))
	assert.GreaterOrEqual(t, factoryCalls.Load(), int64(2))

	require.Eventually(t, func() bool {
		return terminated.Load() == 1
	}, time.Second, 5*time.Millisecond)
	// exactly one Terminated, ever
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, terminated.Load())
}

type alwaysPanics struct{}

func (a *alwaysPanics) PreStart(*Context) error {
	return nil
}

func (a *alwaysPanics) Receive(*ReceiveContext) {
	panic("boom")
}

func (a *alwaysPanics) PostStop(*Context) error {
	return nil
}

func TestSupervisionResumeKeepsState(t *testing.T) {
	sys := newTestSystem(t)

	factoryCalls := atomic.NewInt64(0)
	rec := &recorder{}
	factory := func() Actor {
		factoryCalls.Inc()
		return &panicsOnOne{rec: rec}
	}
	supervisor := NewSupervisor(WithAnyErrorDirective(ResumeDirective))
	_, child := spawnFailingChild(t, sys, supervisor, factory)

	require.NoError(t, sys.Tell("bad", 1, child))
	require.NoError(t, sys.Tell("good", 2, child))

	require.Eventually(t, func() bool {
		return rec.len() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "good", rec.snapshot()[0])
	// resumed, never recreated
	assert.EqualValues(t, 1, factoryCalls.Load())
}

type panicsOnOne struct {
	rec *recorder
}

func (p *panicsOnOne) PreStart(*Context) error {
	return nil
}

func (p *panicsOnOne) Receive(ctx *ReceiveContext) {
	if ctx.Message().Tag() == 1 {
		panic("transient")
	}
	p.rec.add(ctx.Message().Value())
}

func (p *panicsOnOne) PostStop(*Context) error {
	return nil
}

func TestSupervisionStopDirective(t *testing.T) {
	sys := newTestSystem(t)

	factory := func() Actor { return &alwaysPanics{} }
	supervisor := NewSupervisor(WithAnyErrorDirective(StopDirective))
	parent, child := spawnFailingChild(t, sys, supervisor, factory)

	require.NoError(t, sys.Tell(nil, 1, child))

	require.Eventually(t, func() bool {
		_, live := sys.registry.cell(child)
		return !live
	}, time.Second, 5*time.Millisecond)

	// parent survives and forgets the child
	cell, ok := sys.registry.cell(parent)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		return len(cell.Children()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSupervisionEscalate(t *testing.T) {
	sys := newTestSystem(t)

	parentStarts := atomic.NewInt64(0)
	childC := make(chan ID, 1)

	// the parent recreates no children after restart, it just counts its
	// own factory invocations
	parentFactory := func() Actor {
		parentStarts.Inc()
		return &escalatingParent{childC: childC}
	}
	parent, err := sys.AddActor(parentFactory)
	require.NoError(t, err)

	require.NoError(t, sys.Tell(nil, 100, parent))
	var child ID
	select {
	case child = <-childC:
	case <-time.After(time.Second):
		t.Fatal("child was not spawned")
	}

	require.NoError(t, sys.Tell(nil, 1, child))

	// escalation makes the child's failure the parent's own; the user root
	// applies the default restart directive to the parent, which stops the
	// child first
	require.Eventually(t, func() bool {
		return parentStarts.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, live := sys.registry.cell(child)
		return !live
	}, time.Second, 5*time.Millisecond)
	_, live := sys.registry.cell(parent)
	assert.True(t, live)
}

type escalatingParent struct {
	childC chan ID
}

func (e *escalatingParent) PreStart(*Context) error {
	return nil
}

func (e *escalatingParent) Receive(ctx *ReceiveContext) {
	if ctx.Message().Tag() == 100 {
		id, err := ctx.AddChild(func() Actor { return &alwaysPanics{} })
		if err != nil {
			ctx.Err(err)
			return
		}
		e.childC <- id
	}
}

func (e *escalatingParent) PostStop(*Context) error {
	return nil
}

func (e *escalatingParent) SupervisorStrategy() *Supervisor {
	return NewSupervisor(WithAnyErrorDirective(EscalateDirective))
}

func TestStopCascade(t *testing.T) {
	sys := newTestSystem(t)

	postStops := atomic.NewInt64(0)
	childrenC := make(chan []ID, 1)

	parent, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		if ctx.Message().Tag() == 100 {
			ids, err := ctx.AddChildren(func() Actor {
				return &countingStops{counter: postStops}
			}, 3)
			if err != nil {
				t.Errorf("spawn children: %v", err)
				return
			}
			childrenC <- ids
		}
	}), WithName("subtree"))
	require.NoError(t, err)

	require.NoError(t, sys.Tell(nil, 100, parent))
	var children []ID
	select {
	case children = <-childrenC:
	case <-time.After(time.Second):
		t.Fatal("children were not spawned")
	}
	require.Len(t, children, 3)

	require.NoError(t, sys.Stop(parent))

	require.Eventually(t, func() bool {
		if _, live := sys.registry.cell(parent); live {
			return false
		}
		for _, child := range children {
			if _, live := sys.registry.cell(child); live {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)

	// every child ran PostStop exactly once
	assert.EqualValues(t, 3, postStops.Load())
	_, ok := sys.GetActorFromPath("/user/subtree")
	assert.False(t, ok)
}

type countingStops struct {
	counter *atomic.Int64
}

func (c *countingStops) PreStart(*Context) error {
	return nil
}

func (c *countingStops) Receive(*ReceiveContext) {}

func (c *countingStops) PostStop(*Context) error {
	c.counter.Inc()
	return nil
}

func TestRestartHooks(t *testing.T) {
	sys := newTestSystem(t)

	hooks := &recorder{}
	factory := func() Actor { return &hookedActor{hooks: hooks} }
	supervisor := NewSupervisor(WithRetry(5, time.Second))
	_, child := spawnFailingChild(t, sys, supervisor, factory)

	require.NoError(t, sys.Tell(nil, 1, child))

	require.Eventually(t, func() bool {
		return hooks.len() >= 2
	}, time.Second, 5*time.Millisecond)
	snapshot := hooks.snapshot()
	assert.Equal(t, "preRestart", snapshot[0])
	assert.Equal(t, "postRestart", snapshot[1])
}

type hookedActor struct {
	hooks *recorder
}

func (h *hookedActor) PreStart(*Context) error {
	return nil
}

func (h *hookedActor) Receive(ctx *ReceiveContext) {
	if ctx.Message().Tag() == 1 {
		panic("hook trigger")
	}
}

func (h *hookedActor) PostStop(*Context) error {
	return nil
}

func (h *hookedActor) PreRestart(_ *Context, reason error) error {
	h.hooks.add("preRestart")
	return nil
}

func (h *hookedActor) PostRestart(_ *Context, reason error) error {
	h.hooks.add("postRestart")
	return nil
}
