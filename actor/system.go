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
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/internal/eventstream"
	"github.com/kestrelworks/kestrel/internal/future"
	"github.com/kestrelworks/kestrel/log"
	"github.com/kestrelworks/kestrel/persistence"
)

// ActorSystem is the user-facing handle over the runtime: it registers
// actors, routes messages, owns the worker pool and the ancillary services.
type ActorSystem struct {
	name   string
	config *config
	logger log.Logger

	registry    *registry
	dispatcher  *dispatcher
	resources   *resourceExecutor
	scheduler   *scheduler
	failsafe    *failsafeManager
	deadLetters *deadLetterSink
	events      eventstream.Stream
	watchdog    *watchdog
	podRunner   *podControllerRunner
	journal     *persistence.Service

	baseCtx context.Context
	cancel  context.CancelFunc

	started    *atomic.Bool
	stopping   *atomic.Bool
	terminated *future.Future[struct{}]

	rootCell   *Cell
	userRoot   *Cell
	systemRoot *Cell

	defaultSupervisor *Supervisor

	actorsCount   *atomic.Int64
	restartsCount *atomic.Int64
	startedAt     *atomic.Int64

	watchdogHandlers *handlerList[*WatchdogReport]
}

// NewActorSystem creates a system with the given name and options. Call
// Start before registering actors.
func NewActorSystem(name string, opts ...Option) *ActorSystem {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	if cfg.parallelism < 1 {
		cfg.parallelism = 1
	}

	s := &ActorSystem{
		name:          name,
		config:        cfg,
		logger:        cfg.logger,
		registry:      newRegistry(),
		events:        eventstream.New(),
		started:       atomic.NewBool(false),
		stopping:      atomic.NewBool(false),
		terminated:    future.New[struct{}](),
		actorsCount:   atomic.NewInt64(0),
		restartsCount: atomic.NewInt64(0),
		startedAt:     atomic.NewInt64(0),
		defaultSupervisor: NewSupervisor(
			WithRetry(cfg.maxRetries, cfg.withinTimeRange),
		),
		watchdogHandlers: newHandlerList[*WatchdogReport](),
	}
	s.failsafe = newFailsafeManager(s.logger)
	s.deadLetters = newDeadLetterSink(s.events, s.logger, cfg.deadLetterHandler)
	s.dispatcher = newDispatcher(s, cfg.parallelism, cfg.throughput)
	s.resources = newResourceExecutor(s, cfg.parallelism, cfg.maxResourceThreads, cfg.bufferQueueSize, cfg.throughput)
	s.scheduler = newScheduler(s, s.logger, cfg.awaitTerminationTimeout)
	return s
}

// Name returns the system name.
func (s *ActorSystem) Name() string {
	return s.name
}

// Logger returns the system logger.
func (s *ActorSystem) Logger() log.Logger {
	return s.logger
}

// Start brings the runtime up: workers, timer service, guardians, and the
// optional persistence, watchdog and pod controller services.
func (s *ActorSystem) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Infof("starting actor system %s with %d workers...", s.name, s.config.parallelism)
	s.baseCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.startedAt.Store(time.Now().Unix())

	s.dispatcher.start()
	s.scheduler.Start(s.baseCtx)

	if err := s.startGuardians(); err != nil {
		return err
	}

	if s.config.persistenceMode {
		workers := s.config.parallelism * s.config.parallelismFactor
		s.journal = persistence.NewService(s.config.persistenceDriver, workers)
		if err := s.journal.Start(s.baseCtx); err != nil {
			return fmt.Errorf("start persistence service: %w", err)
		}
	}

	if s.config.watchdogEnabled {
		s.watchdog = newWatchdog(s, s.config.watchdogSyncTime)
		if err := s.watchdog.start(); err != nil {
			return fmt.Errorf("start watchdog: %w", err)
		}
	}

	if s.config.hpaEnabled {
		s.podRunner = newPodControllerRunner(s, s.config.podController)
		s.podRunner.start()
	}

	s.logger.Infof("actor system %s started", s.name)
	return nil
}

// startGuardians creates the root cell and the user/system roots under it.
func (s *ActorSystem) startGuardians() error {
	root, err := s.spawnGuardian(nil, "", func(c *Cell) {
		c.isRoot = true
		c.supervisor = NewSupervisor(WithAnyErrorDirective(StopDirective))
	})
	if err != nil {
		return err
	}
	s.rootCell = root

	user, err := s.spawnGuardian(root, "user", func(c *Cell) {
		c.isRootInUser = true
	})
	if err != nil {
		return err
	}
	s.userRoot = user

	system, err := s.spawnGuardian(root, "system", nil)
	if err != nil {
		return err
	}
	s.systemRoot = system
	return nil
}

func (s *ActorSystem) spawnGuardian(parent *Cell, name string, customize func(*Cell)) (*Cell, error) {
	cfg := &spawnConfig{name: name, system: true}
	id, err := s.spawnCell(parent, Func(nil), cfg, customize)
	if err != nil {
		return nil, err
	}
	cell, _ := s.registry.cell(id)
	return cell, nil
}

// hookContext is the context handed to lifecycle hooks.
func (s *ActorSystem) hookContext() context.Context {
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}

func (s *ActorSystem) isRunning() bool {
	return s.started.Load() && !s.stopping.Load()
}

// ---- registration ----

// AddActor registers a user actor under the user root and returns its
// identity.
func (s *ActorSystem) AddActor(factory Factory, opts ...SpawnOption) (ID, error) {
	if !s.isRunning() {
		return NoID, gerrors.ErrSystemNotStarted
	}
	return s.spawn(s.userRoot, factory, opts...)
}

// AddSystemActor registers count actors under the system root, spread across
// workers as a distributed group. It returns their identities in
// registration order.
func (s *ActorSystem) AddSystemActor(factory Factory, count int, opts ...SpawnOption) ([]ID, error) {
	if !s.isRunning() {
		return nil, gerrors.ErrSystemNotStarted
	}
	group := NewDistributedGroup()
	ids := make([]ID, 0, count)
	for i := 0; i < count; i++ {
		cfg := newSpawnConfig(opts...)
		cfg.system = true
		if cfg.group == nil {
			cfg.group = group
		}
		if cfg.name != "" {
			cfg.name = fmt.Sprintf("%s-%d", cfg.name, i)
		}
		id, err := s.spawnCell(s.systemRoot, factory, cfg, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// spawnSystemActor registers one actor under the system root.
func (s *ActorSystem) spawnSystemActor(factory Factory, opts ...SpawnOption) (ID, error) {
	cfg := newSpawnConfig(opts...)
	cfg.system = true
	return s.spawnCell(s.systemRoot, factory, cfg, nil)
}

func (s *ActorSystem) spawn(parent *Cell, factory Factory, opts ...SpawnOption) (ID, error) {
	return s.spawnCell(parent, factory, newSpawnConfig(opts...), nil)
}

// spawnCell builds, links and starts a new cell. Registration is atomic:
// the cell is visible to lookups only after the parent's child set has been
// updated, and a failing PreStart rolls the registration back.
func (s *ActorSystem) spawnCell(parent *Cell, factory Factory, cfg *spawnConfig, customize func(*Cell)) (ID, error) {
	var instance Actor
	if err := catchPanic(func() error {
		instance = factory()
		return nil
	}); err != nil {
		s.failsafe.notify(err, FailsafeInitialization, NoID)
		return NoID, fmt.Errorf("%w: %v", gerrors.ErrInitFailure, err)
	}
	if instance == nil {
		s.failsafe.notify(gerrors.ErrInitFailure, FailsafeInitialization, NoID)
		return NoID, gerrors.ErrInitFailure
	}

	id := NewID()
	name := cfg.name
	if name == "" {
		name = id.String()
	}
	path := "/" + name
	if parent != nil && parent.path != "/" {
		path = parent.path + "/" + name
	}
	if parent == nil {
		path = "/"
	}

	cell := newCell(s, id, parentOf(parent), name, path, factory, instance, cfg)
	cell.owner = s.dispatcher.assign(id, cfg.group)
	if customize != nil {
		customize(cell)
	}

	if parent != nil {
		if err := parent.addChild(id, name); err != nil {
			return NoID, err
		}
	}
	s.registry.register(cell)

	if err := catchPanic(func() error {
		return instance.PreStart(cell.hookCtx())
	}); err != nil {
		s.registry.unregister(cell)
		if parent != nil {
			parent.removeChild(id)
		}
		s.failsafe.notify(err, FailsafeInitialization, id)
		return NoID, fmt.Errorf("%w: %v", gerrors.ErrInitFailure, err)
	}

	cell.setLifecycle(Started)
	if cfg.alias != "" {
		s.registry.setAlias(id, cfg.alias)
	}
	if !cfg.system {
		s.actorsCount.Inc()
	}
	return id, nil
}

func parentOf(parent *Cell) ID {
	if parent == nil {
		return NoID
	}
	return parent.id
}

func catchPanic(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = gerrors.NewPanicError(r, debug.Stack())
		}
	}()
	return fn()
}

// ---- routing ----

// route delivers an envelope: control signals ride the priority lane, user
// messages the normal lane. A destination with no registered cell sends the
// envelope to the dead-letter sink.
func (s *ActorSystem) route(env *Envelope) {
	cell, ok := s.registry.anyCell(env.to)
	if !ok {
		s.deadLetters.receive(env)
		return
	}
	if cell.isPseudo {
		s.deliverPseudo(cell, env)
		return
	}

	lane := cell.normalBox
	if env.isSignal() {
		lane = cell.priorityBox
	}
	if err := lane.Enqueue(env); err != nil {
		s.deadLetters.receive(env)
		s.failsafe.notify(err, FailsafeExecuterClient, env.to)
		return
	}
	cell.schedule()
}

// routePriority delivers a user envelope through the priority lane.
func (s *ActorSystem) routePriority(env *Envelope) {
	cell, ok := s.registry.anyCell(env.to)
	if !ok {
		s.deadLetters.receive(env)
		return
	}
	if cell.isPseudo {
		s.deliverPseudo(cell, env)
		return
	}
	if err := cell.priorityBox.Enqueue(env); err != nil {
		s.deadLetters.receive(env)
		return
	}
	cell.schedule()
}

// sendViaAlias resolves the alias and delivers. An unbound alias routes the
// message to the dead-letter sink.
func (s *ActorSystem) sendViaAlias(msg *Message, alias string) {
	dest, ok := s.registry.lookupAlias(alias)
	if !ok {
		s.deadLetters.receive(userEnvelope(msg))
		return
	}
	s.route(userEnvelope(msg.ShallowCopyDest(dest)))
}

// Send delivers the message to its destination.
func (s *ActorSystem) Send(msg *Message) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if msg == nil || msg.Dest().IsNil() {
		return gerrors.ErrInvalidMessage
	}
	s.route(userEnvelope(msg))
	return nil
}

// SendPriority delivers the message through the destination's priority lane.
func (s *ActorSystem) SendPriority(msg *Message) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if msg == nil || msg.Dest().IsNil() {
		return gerrors.ErrInvalidMessage
	}
	s.routePriority(userEnvelope(msg))
	return nil
}

// Tell sends a fresh message with the given payload and tag.
func (s *ActorSystem) Tell(value any, tag int32, dest ID, opts ...MessageOption) error {
	opts = append(opts, WithDest(dest))
	return s.Send(NewMessage(value, tag, opts...))
}

// SendViaAlias resolves the alias and delivers. An unbound alias routes the
// message to the dead-letter sink.
func (s *ActorSystem) SendViaAlias(msg *Message, alias string) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if msg == nil {
		return gerrors.ErrInvalidMessage
	}
	s.sendViaAlias(msg, alias)
	return nil
}

// ---- lifecycle control ----

// Stop transitions the actor toward STOPPED, stopping its descendants first.
func (s *ActorSystem) Stop(id ID) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if _, ok := s.registry.cell(id); !ok {
		return gerrors.ErrActorNotFound
	}
	s.route(signalEnvelope(id, signalStop))
	return nil
}

// Kill stops the actor immediately, discarding its pending user messages to
// the dead-letter sink.
func (s *ActorSystem) Kill(id ID) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if _, ok := s.registry.cell(id); !ok {
		return gerrors.ErrActorNotFound
	}
	s.route(signalEnvelope(id, signalKill))
	return nil
}

// Restart asks the actor to recreate its internal state.
func (s *ActorSystem) Restart(id ID) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if _, ok := s.registry.cell(id); !ok {
		return gerrors.ErrActorNotFound
	}
	s.route(signalEnvelope(id, signalRestart))
	return nil
}

// Activate resumes delivery of user messages to a deactivated actor.
func (s *ActorSystem) Activate(id ID) error {
	if _, ok := s.registry.cell(id); !ok {
		return gerrors.ErrActorNotFound
	}
	s.route(signalEnvelope(id, signalActivate))
	return nil
}

// Deactivate suspends delivery of user messages to the actor; suspended
// messages go to the dead-letter sink.
func (s *ActorSystem) Deactivate(id ID) error {
	if _, ok := s.registry.cell(id); !ok {
		return gerrors.ErrActorNotFound
	}
	s.route(signalEnvelope(id, signalDeactivate))
	return nil
}

// ---- lookup ----

// SetAlias binds the alias to the identity. Aliases are many-to-many.
func (s *ActorSystem) SetAlias(id ID, alias string) error {
	if alias == "" {
		return gerrors.ErrInvalidMessage
	}
	if _, ok := s.registry.cell(id); !ok {
		return gerrors.ErrActorNotFound
	}
	s.registry.setAlias(id, alias)
	return nil
}

// UnsetAlias removes one alias binding.
func (s *ActorSystem) UnsetAlias(id ID, alias string) {
	s.registry.unsetAlias(id, alias)
}

// LookupAlias resolves an alias to one bound identity; with multiple
// bindings the choice is arbitrary but deterministic.
func (s *ActorSystem) LookupAlias(alias string) (ID, bool) {
	return s.registry.lookupAlias(alias)
}

// GetActorFromPath resolves a registry path ("/user/billing/worker-1") to an
// identity.
func (s *ActorSystem) GetActorFromPath(path string) (ID, bool) {
	return s.registry.lookupPath(path)
}

// PathOf returns the registry path of the identity, "" when unknown.
func (s *ActorSystem) PathOf(id ID) string {
	if cell, ok := s.registry.cell(id); ok {
		return cell.path
	}
	return ""
}

// Lifecycle returns the lifecycle state of the identity.
func (s *ActorSystem) Lifecycle(id ID) (Lifecycle, bool) {
	if cell, ok := s.registry.cell(id); ok {
		return cell.Lifecycle(), true
	}
	return Stopped, false
}

// ---- timers ----

// ScheduleOnce schedules one delivery of the message after the delay. The
// destination is an ID or an alias string.
func (s *ActorSystem) ScheduleOnce(msg *Message, dest any, delay time.Duration) (TimerHandle, error) {
	return s.scheduler.ScheduleOnce(msg, dest, delay)
}

// ScheduleAtFixedRate schedules repeated delivery of the message every
// period, first firing after initialDelay. Each fire sends a fresh copy.
func (s *ActorSystem) ScheduleAtFixedRate(msg *Message, dest any, initialDelay, period time.Duration) (TimerHandle, error) {
	return s.scheduler.ScheduleAtFixedRate(msg, dest, initialDelay, period)
}

// CancelTimer cancels the scheduled message bound to the handle.
func (s *ActorSystem) CancelTimer(handle TimerHandle) error {
	return s.scheduler.Cancel(handle)
}

// ---- observability ----

// RegisterErrorHandler adds a failsafe error handler, invoked on every
// unhandled fault caught by a core thread.
func (s *ActorSystem) RegisterErrorHandler(handler ErrorHandler) {
	s.failsafe.register(handler)
}

// OnDeadLetter registers an additional dead-letter consumer.
func (s *ActorSystem) OnDeadLetter(handler DeadLetterHandler) {
	s.deadLetters.addHandler(handler)
}

// OnWatchdogReport registers a consumer of watchdog probe rounds.
func (s *ActorSystem) OnWatchdogReport(handler func(*WatchdogReport)) {
	s.watchdogHandlers.add(handler)
}

// NonResponsiveWorkers returns the worker indexes flagged by the last
// watchdog round. It is empty when the watchdog is disabled.
func (s *ActorSystem) NonResponsiveWorkers() []int {
	if s.watchdog == nil {
		return nil
	}
	return s.watchdog.nonResponsiveWorkers()
}

// Metric returns a snapshot of the system counters.
func (s *ActorSystem) Metric() Metric {
	var uptime int64
	if startedAt := s.startedAt.Load(); startedAt > 0 {
		uptime = time.Now().Unix() - startedAt
	}
	return Metric{
		actorsCount:      s.actorsCount.Load(),
		deadlettersCount: s.deadLetters.count(),
		restartsCount:    s.restartsCount.Load(),
		uptime:           uptime,
		workerCounts:     s.dispatcher.counts(),
	}
}

// Persistence returns the journal service, nil when persistence mode is
// disabled.
func (s *ActorSystem) Persistence() *persistence.Service {
	return s.journal
}

func (s *ActorSystem) persistEvent(id ID, payload []byte) (*persistence.Ack, error) {
	if s.journal == nil {
		return nil, gerrors.ErrPersistenceDisabled
	}
	return s.journal.Persist(id.String(), payload)
}

// ---- shutdown ----

// onRootStopped runs when the root guardian finishes its stop cascade.
func (s *ActorSystem) onRootStopped() {
	s.terminated.Complete(struct{}{})
}

// Shutdown cancels all scheduled timers, stops the actor tree root-down and
// releases the workers and pools. With await=true it drains until idle or
// until the await-termination timeout, then forcibly releases.
func (s *ActorSystem) Shutdown(ctx context.Context, await bool) error {
	if !s.started.Load() {
		return gerrors.ErrSystemNotStarted
	}
	if !s.stopping.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Infof("shutting down actor system %s...", s.name)

	var errs error

	// the ancillary services are independent, bring them down in parallel
	group, groupCtx := errgroup.WithContext(ctx)
	if s.podRunner != nil {
		group.Go(func() error {
			s.podRunner.stop()
			return nil
		})
	}
	if s.watchdog != nil {
		group.Go(func() error {
			s.watchdog.stop()
			return nil
		})
	}
	group.Go(func() error {
		s.scheduler.Stop(groupCtx)
		return nil
	})
	multierr.AppendInto(&errs, group.Wait())

	s.route(signalEnvelope(s.rootCell.id, signalStop))
	if await {
		if err := s.AwaitTermination(ctx); err != nil {
			multierr.AppendInto(&errs, fmt.Errorf("await termination: %w", err))
		}
	}

	s.resources.stop(await, s.config.awaitTerminationTimeout)
	s.dispatcher.stop()

	if s.journal != nil {
		multierr.AppendInto(&errs, s.journal.Stop(ctx))
	}

	s.events.Close()
	s.cancel()
	s.started.Store(false)

	s.logger.Infof("actor system %s stopped", s.name)
	return errs
}

// AwaitTermination blocks until the actor tree has fully stopped, the
// await-termination timeout elapses or the context is canceled.
func (s *ActorSystem) AwaitTermination(ctx context.Context) error {
	_, err := s.terminated.Await(ctx, s.config.awaitTerminationTimeout)
	if err == future.ErrFutureTimeout {
		return gerrors.ErrRequestTimeout
	}
	return err
}
