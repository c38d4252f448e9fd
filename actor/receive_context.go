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
	"sync"
	"time"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/log"
	"github.com/kestrelworks/kestrel/persistence"
)

var contextPool = sync.Pool{
	New: func() any { return new(ReceiveContext) },
}

// ReceiveContext is the façade handed to a reception function for one
// message. It is pooled and reused: do not retain it beyond the call.
type ReceiveContext struct {
	cell       *Cell
	env        *Envelope
	handlerErr error
}

func (ctx *ReceiveContext) reset(cell *Cell, env *Envelope) {
	ctx.cell = cell
	ctx.env = env
	ctx.handlerErr = nil
}

// Message returns the message being processed.
func (ctx *ReceiveContext) Message() *Message {
	return ctx.env.message
}

// Self returns this actor's identity.
func (ctx *ReceiveContext) Self() ID {
	return ctx.cell.id
}

// Parent returns this actor's parent identity.
func (ctx *ReceiveContext) Parent() ID {
	return ctx.cell.parentID
}

// Children returns this actor's child identities in insertion order.
func (ctx *ReceiveContext) Children() []ID {
	return ctx.cell.Children()
}

// Name returns this actor's name.
func (ctx *ReceiveContext) Name() string {
	return ctx.cell.name
}

// Path returns this actor's registry path.
func (ctx *ReceiveContext) Path() string {
	return ctx.cell.path
}

// Sender returns the identity of the message source, NoID when absent.
func (ctx *ReceiveContext) Sender() ID {
	return ctx.env.message.Source()
}

// System returns the actor system handle.
func (ctx *ReceiveContext) System() *ActorSystem {
	return ctx.cell.system
}

// Logger returns the system logger.
func (ctx *ReceiveContext) Logger() log.Logger {
	return ctx.cell.system.Logger()
}

// IsRoot reports whether this actor is the root guardian.
func (ctx *ReceiveContext) IsRoot() bool {
	return ctx.cell.isRoot
}

// IsRootInUser reports whether this actor is the user-space root.
func (ctx *ReceiveContext) IsRootInUser() bool {
	return ctx.cell.isRootInUser
}

// Err marks the current message as failed, feeding the supervision protocol
// once the reception function returns.
func (ctx *ReceiveContext) Err(err error) {
	ctx.handlerErr = err
}

// ---- sending ----

// Send resolves the message destination and enqueues it, stamping this actor
// as the source.
func (ctx *ReceiveContext) Send(msg *Message) {
	ctx.cell.system.route(userEnvelope(msg.ShallowCopy(ctx.cell.id, msg.Dest())))
}

// SendTo sends the message to the given destination.
func (ctx *ReceiveContext) SendTo(msg *Message, dest ID) {
	ctx.cell.system.route(userEnvelope(msg.ShallowCopy(ctx.cell.id, dest)))
}

// SendViaAlias resolves the alias and sends. An unbound alias routes the
// message to the dead-letter sink.
func (ctx *ReceiveContext) SendViaAlias(msg *Message, alias string) {
	ctx.cell.system.sendViaAlias(msg.ShallowCopy(ctx.cell.id, msg.Dest()), alias)
}

// SendViaPath resolves the registry path and sends. An unknown path routes
// the message to the dead-letter sink.
func (ctx *ReceiveContext) SendViaPath(msg *Message, path string) {
	system := ctx.cell.system
	if dest, ok := system.GetActorFromPath(path); ok {
		ctx.SendTo(msg, dest)
		return
	}
	system.deadLetters.receive(userEnvelope(msg.ShallowCopy(ctx.cell.id, NoID)))
}

// Tell sends a fresh message with the given payload and tag to dest.
func (ctx *ReceiveContext) Tell(value any, tag int32, dest ID, opts ...MessageOption) {
	msg := NewMessage(value, tag, opts...)
	ctx.SendTo(msg, dest)
}

// TellAlias sends a fresh message with the given payload and tag via alias.
func (ctx *ReceiveContext) TellAlias(value any, tag int32, alias string, opts ...MessageOption) {
	msg := NewMessage(value, tag, opts...)
	ctx.SendViaAlias(msg, alias)
}

// Reply sends a fresh message back to the sender of the current message,
// preserving its interaction identity.
func (ctx *ReceiveContext) Reply(value any, tag int32) {
	source := ctx.env.message.Source()
	if source.IsNil() {
		ctx.Unhandled()
		return
	}
	reply := NewMessage(value, tag, WithInteraction(ctx.env.message.Interaction()))
	ctx.SendTo(reply, source)
}

// Forward re-sends the message preserving the original sender with a new
// destination.
func (ctx *ReceiveContext) Forward(msg *Message, dest ID) {
	ctx.cell.system.route(userEnvelope(msg.ShallowCopyDest(dest)))
}

// ForwardAlias re-sends the message preserving the original sender via alias.
func (ctx *ReceiveContext) ForwardAlias(msg *Message, alias string) {
	ctx.cell.system.sendViaAlias(msg.ShallowCopyDest(msg.Dest()), alias)
}

// Priority sends the message through the destination's priority lane,
// stamping this actor as the source.
func (ctx *ReceiveContext) Priority(msg *Message, dest ID) {
	ctx.cell.system.routePriority(userEnvelope(msg.ShallowCopy(ctx.cell.id, dest)))
}

// Unhandled routes the current message to the dead-letter sink.
func (ctx *ReceiveContext) Unhandled() {
	ctx.cell.system.deadLetters.receive(ctx.env)
}

// ---- behavior switching ----

// Become swaps (replace=true) or pushes (replace=false) the reception
// function.
func (ctx *ReceiveContext) Become(behavior Behavior, replace bool) {
	ctx.cell.behaviors.become(behavior, replace)
}

// Unbecome pops the active reception function, revealing the prior one.
func (ctx *ReceiveContext) Unbecome() {
	if !ctx.cell.behaviors.unbecome() {
		ctx.Err(gerrors.ErrBehaviorStackEmpty)
	}
}

// UnbecomeAll collapses the behavior stack to the original reception
// function.
func (ctx *ReceiveContext) UnbecomeAll() {
	ctx.cell.behaviors.unbecomeAll()
}

// ---- await ----

// AwaitSource becomes a behavior that routes only messages from the given
// source to action.
func (ctx *ReceiveContext) AwaitSource(source ID, action Behavior, replace bool) {
	ctx.Become(func(c *ReceiveContext) {
		if c.Message().Source() == source {
			action(c)
		}
	}, replace)
}

// AwaitTag becomes a behavior that routes only messages with the given tag to
// action.
func (ctx *ReceiveContext) AwaitTag(tag int32, action Behavior, replace bool) {
	ctx.Become(func(c *ReceiveContext) {
		if c.Message().Tag() == tag {
			action(c)
		}
	}, replace)
}

// AwaitSourceTag becomes a behavior that routes only messages matching both
// source and tag to action.
func (ctx *ReceiveContext) AwaitSourceTag(source ID, tag int32, action Behavior, replace bool) {
	ctx.Become(func(c *ReceiveContext) {
		if c.Message().Source() == source && c.Message().Tag() == tag {
			action(c)
		}
	}, replace)
}

// Await becomes a behavior that routes only messages matching the predicate
// to action.
func (ctx *ReceiveContext) Await(predicate func(*Message) bool, action Behavior, replace bool) {
	ctx.Become(func(c *ReceiveContext) {
		if predicate(c.Message()) {
			action(c)
		}
	}, replace)
}

// AwaitWithTimeout becomes a behavior that routes the first message matching
// the predicate to action. When no match arrives within the timeout, action
// runs exactly once with timedOut=true and a nil context. The timer is
// canceled on first match.
func (ctx *ReceiveContext) AwaitWithTimeout(predicate func(*Message) bool, action func(c *ReceiveContext, timedOut bool), timeout time.Duration, replace bool) error {
	if timeout <= 0 {
		return gerrors.ErrInvalidTimeout
	}
	self := ctx.cell.id
	system := ctx.cell.system

	timeoutMsg := NewMessage(nil, Timeout, WithSource(self), WithDest(self))
	handle, err := system.scheduler.scheduleOnceID(timeoutMsg, self, timeout)
	if err != nil {
		return err
	}

	fired := false
	ctx.Become(func(c *ReceiveContext) {
		if fired {
			return
		}
		msg := c.Message()
		if msg.Tag() == Timeout && msg.Source() == self {
			fired = true
			action(nil, true)
			return
		}
		if predicate(msg) {
			fired = true
			_ = system.scheduler.Cancel(handle)
			action(c, false)
		}
	}, replace)
	return nil
}

// ---- stashing ----

// Stash pushes the current message into the owner-private stash reservoir.
func (ctx *ReceiveContext) Stash() {
	ctx.cell.stash.push(ctx.env)
}

// Unstash takes the oldest stashed message and runs it through the active
// behavior immediately.
func (ctx *ReceiveContext) Unstash() error {
	env := ctx.cell.stash.popOne()
	if env == nil {
		return gerrors.ErrStashEmpty
	}
	ctx.cell.invoke(env)
	return nil
}

// UnstashAll drains the stash in stash order, running every message through
// the active behavior immediately.
func (ctx *ReceiveContext) UnstashAll() {
	for _, env := range ctx.cell.stash.popAll() {
		ctx.cell.invoke(env)
	}
}

// StashSize returns the number of stashed messages.
func (ctx *ReceiveContext) StashSize() int {
	return ctx.cell.stash.len()
}

// ---- children, watching, lifecycle ----

// AddChild registers a child actor under this actor and returns its identity.
func (ctx *ReceiveContext) AddChild(factory Factory, opts ...SpawnOption) (ID, error) {
	return ctx.cell.system.spawn(ctx.cell, factory, opts...)
}

// AddChildren registers the given number of children built by the same
// factory.
func (ctx *ReceiveContext) AddChildren(factory Factory, instances int, opts ...SpawnOption) ([]ID, error) {
	ids := make([]ID, 0, instances)
	for i := 0; i < instances; i++ {
		id, err := ctx.cell.system.spawn(ctx.cell, factory, opts...)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Watch registers interest in the destination's termination. When it
// terminates, this actor receives a message with tag Terminated and the
// destination as source.
func (ctx *ReceiveContext) Watch(dest ID) {
	ctx.cell.watch(dest)
}

// Unwatch cancels a prior Watch.
func (ctx *ReceiveContext) Unwatch(dest ID) {
	ctx.cell.unwatch(dest)
}

// Stop transitions this actor toward STOPPED, stopping descendants first.
func (ctx *ReceiveContext) Stop() {
	ctx.cell.beginStop(false)
}

// StopChild stops the given child actor.
func (ctx *ReceiveContext) StopChild(child ID) {
	ctx.cell.system.route(signalEnvelope(child, signalStop))
}

// SetAlias binds an alias to this actor.
func (ctx *ReceiveContext) SetAlias(alias string) error {
	return ctx.cell.system.SetAlias(ctx.cell.id, alias)
}

// Persist appends an event to this actor's journal, returning the
// acknowledgement future. It fails when persistence mode is disabled.
func (ctx *ReceiveContext) Persist(event []byte) (*persistence.Ack, error) {
	return ctx.cell.system.persistEvent(ctx.cell.id, event)
}
