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
	"runtime/debug"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	gerrors "github.com/kestrelworks/kestrel/errors"
)

// Lifecycle models the cell state machine.
type Lifecycle int32

const (
	// Created means the cell exists but PreStart has not completed.
	Created Lifecycle = iota
	// Started means PreStart completed and the cell awaits its first batch.
	Started
	// Running means the cell is processing messages.
	Running
	// Restarting means the cell is inside the supervision restart path.
	Restarting
	// Stopping means the cell is stopping its descendants before itself.
	Stopping
	// Stopped is terminal; the cell is unregistered.
	Stopped
)

func (l Lifecycle) String() string {
	switch l {
	case Created:
		return "CREATED"
	case Started:
		return "STARTED"
	case Running:
		return "RUNNING"
	case Restarting:
		return "RESTARTING"
	case Stopping:
		return "STOPPING"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// Cell is the runtime envelope around a user-supplied actor: identity,
// mailboxes, behavior stack, children, watchers and lifecycle state. All
// fields below the sync markers are touched only by the owning worker; the
// dispatcher guarantees cell-level mutual exclusion.
type Cell struct {
	id       ID
	parentID ID
	name     string
	path     string
	factory  Factory
	system   *ActorSystem

	normalBox   Mailbox
	priorityBox Mailbox

	activation *atomic.Bool
	lifecycle  *atomic.Int32
	processed  *atomic.Uint64
	restarts   *atomic.Uint32

	// classification flags, immutable after construction
	isRoot       bool
	isRootInUser bool
	isResource   bool
	isPseudo     bool
	isSystem     bool

	// child bookkeeping, serialized per-parent
	childrenMu sync.Mutex
	childOrder []ID
	childNames map[string]ID

	// watcher back-references are identities only, resolved through the
	// registry at signaling time. watchMu arbitrates between concurrent
	// watch registration and the terminal watcher notification so that
	// every watcher sees exactly one Terminated.
	watchMu        sync.Mutex
	watchersClosed bool
	watchers       mapset.Set[ID]
	watching       mapset.Set[ID]

	supervisor *Supervisor

	owner *worker

	pseudo *pseudoState

	// ---- owner-worker-only state below ----

	actor     Actor
	behaviors *behaviorStack
	stash     *stashBuffer

	// user-message gate toggled by Activate/Deactivate
	deactivated bool

	// stop/restart coordination
	pendingAcks  int
	restartCause error

	// failure window, touched only by the parent's worker
	failures    int
	windowStart time.Time
}

func newCell(system *ActorSystem, id ID, parentID ID, name, path string, factory Factory, instance Actor, cfg *spawnConfig) *Cell {
	var normal Mailbox
	switch {
	case cfg.mailbox != nil:
		normal = cfg.mailbox
	case system.config.queueSize > 0:
		normal = NewBoundedMailbox(system.config.queueSize)
	default:
		normal = NewUnboundedMailbox()
	}

	cell := &Cell{
		id:          id,
		parentID:    parentID,
		name:        name,
		path:        path,
		factory:     factory,
		system:      system,
		normalBox:   normal,
		priorityBox: NewUnboundedMailbox(),
		activation:  atomic.NewBool(false),
		lifecycle:   atomic.NewInt32(int32(Created)),
		processed:   atomic.NewUint64(0),
		restarts:    atomic.NewUint32(0),
		isResource:  cfg.resource,
		isSystem:    cfg.system,
		childNames:  make(map[string]ID),
		watchers:    mapset.NewSet[ID](),
		watching:    mapset.NewSet[ID](),
		supervisor:  cfg.supervisor,
		actor:       instance,
		stash:       newStashBuffer(),
	}
	cell.behaviors = newBehaviorStack(cell.receiveBehavior())
	return cell
}

// receiveBehavior adapts the actor's Receive method into the bottom of the
// behavior stack.
func (c *Cell) receiveBehavior() Behavior {
	return func(ctx *ReceiveContext) {
		c.actor.Receive(ctx)
	}
}

// ID returns the cell identity.
func (c *Cell) ID() ID {
	return c.id
}

// Name returns the cell name.
func (c *Cell) Name() string {
	return c.name
}

// Path returns the registry path of the cell.
func (c *Cell) Path() string {
	return c.path
}

// Parent returns the parent identity, NoID for the root.
func (c *Cell) Parent() ID {
	return c.parentID
}

// Lifecycle returns the current lifecycle state.
func (c *Cell) Lifecycle() Lifecycle {
	return Lifecycle(c.lifecycle.Load())
}

// IsRoot reports whether the cell is the root guardian.
func (c *Cell) IsRoot() bool {
	return c.isRoot
}

// IsRootInUser reports whether the cell is the user-space root guardian.
func (c *Cell) IsRootInUser() bool {
	return c.isRootInUser
}

// IsResource reports whether the cell runs on the resource executor.
func (c *Cell) IsResource() bool {
	return c.isResource
}

// ProcessedCount returns the number of messages this cell has processed.
func (c *Cell) ProcessedCount() uint64 {
	return c.processed.Load()
}

// Children returns the child identities in insertion order.
func (c *Cell) Children() []ID {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	out := make([]ID, len(c.childOrder))
	copy(out, c.childOrder)
	return out
}

func (c *Cell) setLifecycle(l Lifecycle) {
	c.lifecycle.Store(int32(l))
}

// addChild records the child under this cell. Sibling names must be unique.
// Mutations are serialized per-parent by childrenMu.
func (c *Cell) addChild(id ID, name string) error {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	if _, taken := c.childNames[name]; taken {
		return gerrors.ErrNameTaken
	}
	c.childNames[name] = id
	c.childOrder = append(c.childOrder, id)
	return nil
}

func (c *Cell) removeChild(id ID) {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	for i, child := range c.childOrder {
		if child == id {
			c.childOrder = append(c.childOrder[:i], c.childOrder[i+1:]...)
			break
		}
	}
	for name, child := range c.childNames {
		if child == id {
			delete(c.childNames, name)
			break
		}
	}
}

func (c *Cell) childCount() int {
	c.childrenMu.Lock()
	defer c.childrenMu.Unlock()
	return len(c.childOrder)
}

// mailboxesEmpty reports whether both lanes are drained.
func (c *Cell) mailboxesEmpty() bool {
	return c.priorityBox.IsEmpty() && c.normalBox.IsEmpty()
}

// schedule makes sure the owning worker (or the resource executor) will visit
// this cell. Safe to call from any goroutine.
func (c *Cell) schedule() {
	if c.isResource {
		c.system.resources.schedule(c)
		return
	}
	if c.activation.CompareAndSwap(false, true) {
		c.owner.enqueue(c)
	}
}

// nextEnvelope honors the priority-first dequeue policy. While the cell is
// restarting the normal lane stays parked so user messages are preserved for
// the fresh instance.
func (c *Cell) nextEnvelope() *Envelope {
	if env := c.priorityBox.Dequeue(); env != nil {
		return env
	}
	if c.Lifecycle() == Restarting {
		return nil
	}
	return c.normalBox.Dequeue()
}

// drained reports whether the cell has nothing left to process right now.
// A restarting cell parks its normal lane, so only the priority lane counts.
func (c *Cell) drained() bool {
	if !c.priorityBox.IsEmpty() {
		return false
	}
	if c.Lifecycle() == Restarting {
		return true
	}
	return c.normalBox.IsEmpty()
}

// processBatch runs up to budget messages through the cell. It returns the
// number of messages actually processed. Called only with cell-level mutual
// exclusion held by the dispatcher.
func (c *Cell) processBatch(budget int) uint64 {
	if c.Lifecycle() == Started {
		c.setLifecycle(Running)
	}

	var processed uint64
	for i := 0; i < budget; i++ {
		env := c.nextEnvelope()
		if env == nil {
			break
		}
		c.processEnvelope(env)
		processed++
		if c.Lifecycle() == Stopped {
			c.drainToDeadLetters()
			break
		}
	}
	c.processed.Add(processed)
	return processed
}

func (c *Cell) processEnvelope(env *Envelope) {
	if env.isSignal() {
		c.handleSignal(env)
		return
	}

	switch c.Lifecycle() {
	case Stopping, Stopped:
		// the actor is gone as far as user traffic is concerned
		c.system.deadLetters.receive(env)
		return
	}

	if c.deactivated {
		c.system.deadLetters.receive(env)
		return
	}

	c.invoke(env)
}

// invoke runs the active behavior against the envelope, trapping panics and
// handler errors into the supervision protocol.
func (c *Cell) invoke(env *Envelope) {
	ctx := contextPool.Get().(*ReceiveContext)
	ctx.reset(c, env)

	var failure error
	func() {
		defer func() {
			if r := recover(); r != nil {
				failure = gerrors.NewPanicError(r, debug.Stack())
			}
		}()
		c.behaviors.top()(ctx)
	}()

	if failure == nil {
		failure = ctx.handlerErr
	}
	contextPool.Put(ctx)

	if failure != nil {
		c.handleFailure(failure)
	}
}

// handleFailure starts the supervision protocol for this cell: report to the
// failsafe registry, run PreRestart, then hand the decision to the parent.
func (c *Cell) handleFailure(reason error) {
	classification := FailsafeActor
	if c.isResource {
		classification = FailsafeResource
	}
	c.system.failsafe.notify(reason, classification, c.id)

	c.setLifecycle(Restarting)
	c.restartCause = reason
	c.runPreRestart(reason)

	parent, ok := c.system.registry.cell(c.parentID)
	if !ok {
		// nothing above to decide: stop
		c.beginStop(false)
		return
	}
	c.system.route(failureEnvelope(parent.id, c.id, reason))
}

// hookCtx builds the lifecycle-hook context for this cell.
func (c *Cell) hookCtx() *Context {
	return &Context{ctx: c.system.hookContext(), system: c.system, cell: c}
}

func (c *Cell) runPreRestart(reason error) {
	aware, ok := c.actor.(RestartAware)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.system.failsafe.notify(gerrors.NewPanicError(r, debug.Stack()), FailsafeActor, c.id)
		}
	}()
	if err := aware.PreRestart(c.hookCtx(), reason); err != nil {
		c.system.failsafe.notify(err, FailsafeActor, c.id)
	}
}

// handleSignal dispatches internal control envelopes. Signals never reach
// user behaviors.
func (c *Cell) handleSignal(env *Envelope) {
	switch env.signal {
	case signalStop:
		c.beginStop(false)
	case signalKill:
		c.beginStop(true)
	case signalStopSuccess:
		c.handleChildStopped(env.child)
	case signalRestart:
		c.beginRestart()
	case signalResume:
		if c.Lifecycle() == Restarting {
			c.setLifecycle(Running)
			c.restartCause = nil
		}
	case signalFailure:
		c.superviseChild(env.child, env.err)
	case signalHealthCheck:
		c.handleHealthCheck(env)
	case signalActivate:
		c.deactivated = false
	case signalDeactivate:
		c.deactivated = true
	}
}

// superviseChild applies this cell's supervisor strategy to a failing child.
// Runs on this cell's worker, which is the only toucher of the child's
// failure window.
func (c *Cell) superviseChild(childID ID, reason error) {
	child, ok := c.system.registry.cell(childID)
	if !ok {
		return
	}

	strategy := c.supervisorStrategy()
	directive := strategy.Directive(reason)

	switch directive {
	case ResumeDirective:
		c.system.route(signalEnvelope(child.id, signalResume))
	case RestartDirective:
		if c.exhaustedRetries(child, strategy) {
			c.system.route(signalEnvelope(child.id, signalStop))
			return
		}
		c.system.route(signalEnvelope(child.id, signalRestart))
	case StopDirective:
		c.system.route(signalEnvelope(child.id, signalStop))
	case EscalateDirective:
		// the failure becomes this cell's own
		c.handleFailure(reason)
	}
}

// exhaustedRetries advances the child's sliding restart window and reports
// whether the budget is spent.
func (c *Cell) exhaustedRetries(child *Cell, strategy *Supervisor) bool {
	maxRetries := strategy.MaxRetries()
	window := strategy.WithinTimeRange()
	if maxRetries <= 0 || window <= 0 {
		return false
	}

	now := time.Now()
	if child.windowStart.IsZero() || now.Sub(child.windowStart) > window {
		child.windowStart = now
		child.failures = 0
	}
	child.failures++
	return child.failures > maxRetries
}

func (c *Cell) supervisorStrategy() *Supervisor {
	if aware, ok := c.actor.(SupervisorAware); ok {
		if strategy := aware.SupervisorStrategy(); strategy != nil {
			return strategy
		}
	}
	if c.supervisor != nil {
		return c.supervisor
	}
	return c.system.defaultSupervisor
}

// beginRestart stops the children first, then recreates the actor instance.
func (c *Cell) beginRestart() {
	state := c.Lifecycle()
	if state == Stopping || state == Stopped {
		return
	}
	c.setLifecycle(Restarting)
	children := c.Children()
	if len(children) > 0 {
		c.pendingAcks = len(children)
		for _, child := range children {
			c.system.route(signalEnvelope(child, signalStop))
		}
		return
	}
	c.completeRestart()
}

// completeRestart swaps in a fresh actor instance, runs the post-restart
// hook and resumes message processing with the preserved mailbox.
func (c *Cell) completeRestart() {
	reason := c.restartCause
	c.restartCause = nil

	var fresh Actor
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = gerrors.NewPanicError(r, debug.Stack())
			}
		}()
		fresh = c.factory()
		if aware, ok := fresh.(RestartAware); ok {
			return aware.PostRestart(c.hookCtx(), reason)
		}
		return fresh.PreStart(c.hookCtx())
	}()
	if err != nil {
		c.system.failsafe.notify(err, FailsafeInitialization, c.id)
		c.beginStop(false)
		return
	}

	c.actor = fresh
	c.behaviors.reset(c.receiveBehavior())
	c.restarts.Inc()
	c.system.restartsCount.Inc()
	c.setLifecycle(Running)
}

// beginStop starts the stop cascade: descendants stop before this cell
// transitions to STOPPED. When kill is true pending user messages are
// discarded to dead letters first.
func (c *Cell) beginStop(kill bool) {
	state := c.Lifecycle()
	if state == Stopped {
		return
	}
	if kill {
		c.drainToDeadLetters()
	}
	if state == Stopping {
		return
	}
	c.setLifecycle(Stopping)

	children := c.Children()
	if len(children) > 0 {
		c.pendingAcks = len(children)
		for _, child := range children {
			c.system.route(signalEnvelope(child, signalStop))
		}
		return
	}
	c.finalizeStop()
}

// handleChildStopped processes a child's stop acknowledgement. Every child
// sends exactly one in its lifetime.
func (c *Cell) handleChildStopped(childID ID) {
	c.removeChild(childID)
	if c.pendingAcks == 0 {
		return
	}
	c.pendingAcks--
	if c.pendingAcks > 0 {
		return
	}
	switch c.Lifecycle() {
	case Restarting:
		c.completeRestart()
	case Stopping:
		c.finalizeStop()
	}
}

// finalizeStop completes the cell's stop: run PostStop, unregister, notify
// watchers, acknowledge the parent.
func (c *Cell) finalizeStop() {
	c.drainToDeadLetters()
	c.runPostStop()
	c.setLifecycle(Stopped)

	c.system.registry.unregister(c)
	if parent, ok := c.system.registry.cell(c.parentID); ok {
		parent.removeChild(c.id)
	}
	if !c.isSystem && !c.isRoot {
		c.system.actorsCount.Dec()
	}

	// watchers hold identities only; resolve them through the registry now.
	// Closing the set under watchMu guarantees late watchers synthesize
	// their own Terminated instead of racing this notification.
	c.watchMu.Lock()
	c.watchersClosed = true
	watchers := c.watchers.ToSlice()
	c.watchers.Clear()
	c.watchMu.Unlock()
	for _, watcher := range watchers {
		terminated := NewMessage(nil, Terminated, WithSource(c.id), WithDest(watcher))
		c.system.routePriority(userEnvelope(terminated))
	}
	for _, watched := range c.watching.ToSlice() {
		if cell, ok := c.system.registry.cell(watched); ok {
			cell.watchers.Remove(c.id)
		}
	}
	c.watching.Clear()

	if !c.parentID.IsNil() {
		c.system.route(ackEnvelope(c.parentID, c.id))
	}

	c.normalBox.Dispose()
	c.priorityBox.Dispose()

	if c.isRoot {
		c.system.onRootStopped()
	}
}

func (c *Cell) runPostStop() {
	defer func() {
		if r := recover(); r != nil {
			c.system.failsafe.notify(gerrors.NewPanicError(r, debug.Stack()), FailsafeActor, c.id)
		}
	}()
	if err := c.actor.PostStop(c.hookCtx()); err != nil {
		c.system.failsafe.notify(err, FailsafeActor, c.id)
	}
}

// drainToDeadLetters empties the normal lane into the dead-letter sink so
// undelivered messages are never silently dropped.
func (c *Cell) drainToDeadLetters() {
	for {
		env := c.normalBox.Dequeue()
		if env == nil {
			return
		}
		if !env.isSignal() {
			c.system.deadLetters.receive(env)
		}
	}
}

// handleHealthCheck answers a watchdog probe with an Up message to the
// collector recorded as the probe's source.
func (c *Cell) handleHealthCheck(env *Envelope) {
	if env.message == nil || env.message.Source().IsNil() {
		return
	}
	up := NewMessage(c.name, Up, WithSource(c.id), WithDest(env.message.Source()))
	c.system.routePriority(userEnvelope(up))
}

// watch registers this cell's interest in the termination of the target.
// When the target is already gone the Terminated message is synthesized
// immediately.
func (c *Cell) watch(target ID) {
	cell, ok := c.system.registry.cell(target)
	if !ok {
		terminated := NewMessage(nil, Terminated, WithSource(target), WithDest(c.id))
		c.system.routePriority(userEnvelope(terminated))
		return
	}

	cell.watchMu.Lock()
	if cell.watchersClosed {
		cell.watchMu.Unlock()
		terminated := NewMessage(nil, Terminated, WithSource(target), WithDest(c.id))
		c.system.routePriority(userEnvelope(terminated))
		return
	}
	cell.watchers.Add(c.id)
	cell.watchMu.Unlock()
	c.watching.Add(target)
}

func (c *Cell) unwatch(target ID) {
	c.watching.Remove(target)
	if cell, ok := c.system.registry.cell(target); ok {
		cell.watchMu.Lock()
		cell.watchers.Remove(c.id)
		cell.watchMu.Unlock()
	}
}
