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

// Package actor implements the runtime core: identities, mailboxes, the cell
// state machine, the dispatcher, supervision, timers, the resource executor,
// the watchdog and the failsafe registry.
package actor

// Actor defines the core interface for an actor in the runtime.
//
// Actors are lightweight, isolated units of computation that communicate
// exclusively via message passing. Each actor has its own mailbox and
// processes messages sequentially, ensuring thread safety without explicit
// synchronization.
//
// The lifecycle of an actor follows three main phases:
//  1. PreStart – setup logic before message handling begins
//  2. Receive – core message handling
//  3. PostStop – cleanup logic after the actor is stopped
type Actor interface {
	// PreStart is invoked once before the actor begins processing any
	// messages. Use this hook to initialize internal state, register aliases
	// or create child actors.
	//
	// If an error is returned, the actor fails to start and is not
	// registered; the failure is reported through the failsafe registry.
	PreStart(ctx *Context) error

	// Receive handles all user messages sent to the actor's mailbox. It is
	// invoked sequentially per actor instance. Message handling should be
	// non-blocking; long or blocking operations belong to resource actors.
	Receive(ctx *ReceiveContext)

	// PostStop is invoked after the actor has processed its final message and
	// is about to terminate. Use this hook to flush or release resources.
	PostStop(ctx *Context) error
}

// Factory creates a fresh actor instance. The runtime calls it at
// registration and again on every restart, so the returned instance must be
// new each time.
type Factory func() Actor

// RestartAware is implemented by actors that need to observe the supervision
// restart path. PreRestart runs on the failing instance before the directive
// is applied; PostRestart runs on the freshly created instance. Actors that
// do not implement it fall back to PreStart after a restart.
type RestartAware interface {
	// PreRestart runs before the actor is restarted, with the failure that
	// triggered the restart.
	PreRestart(ctx *Context, reason error) error
	// PostRestart runs on the fresh instance created by the factory.
	PostRestart(ctx *Context, reason error) error
}

// SupervisorAware is implemented by actors that supervise their children with
// a strategy other than the system default.
type SupervisorAware interface {
	// SupervisorStrategy returns the strategy applied to failing children.
	SupervisorStrategy() *Supervisor
}

// funcActor adapts a plain reception function to the Actor interface. Used
// for guardians, probes and tests.
type funcActor struct {
	receive func(ctx *ReceiveContext)
}

// enforce compilation error
var _ Actor = (*funcActor)(nil)

// Func wraps a reception function into a Factory.
func Func(receive func(ctx *ReceiveContext)) Factory {
	return func() Actor {
		return &funcActor{receive: receive}
	}
}

func (f *funcActor) PreStart(*Context) error {
	return nil
}

func (f *funcActor) Receive(ctx *ReceiveContext) {
	if f.receive != nil {
		f.receive(ctx)
	}
}

func (f *funcActor) PostStop(*Context) error {
	return nil
}
