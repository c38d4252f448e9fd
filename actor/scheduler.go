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
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/log"
)

// TimerHandle identifies a scheduled message and can be used to cancel it.
type TimerHandle string

// scheduler is the timer service: it stacks messages for future delivery to
// actors, by identity or alias, and sends them through the normal dispatcher
// path with a fresh copy per fire.
type scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	logger          log.Logger
	stopTimeout     time.Duration
	system          *ActorSystem

	// handle -> live quartz job key; fixed-rate schedules swap the key when
	// the initial-delay job hands over to the repeating one
	jobs map[TimerHandle]*quartz.JobKey
}

func newScheduler(system *ActorSystem, logger log.Logger, stopTimeout time.Duration) *scheduler {
	quartzScheduler, _ := quartz.NewStdScheduler(
		quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)),
	)
	return &scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
		system:          system,
		jobs:            make(map[TimerHandle]*quartz.JobKey),
	}
}

// Start starts the scheduler.
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting messages scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("messages scheduler started")
}

// Stop cancels every scheduled message and stops the scheduler.
func (x *scheduler) Stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}
	x.logger.Info("stopping messages scheduler...")
	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())
	x.jobs = make(map[TimerHandle]*quartz.JobKey)

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Info("messages scheduler stopped")
}

// ScheduleOnce schedules one delivery of the message after the given delay.
// The destination is an ID or an alias string.
func (x *scheduler) ScheduleOnce(message *Message, dest any, delay time.Duration) (TimerHandle, error) {
	fire, err := x.fireFunc(message, dest)
	if err != nil {
		return "", err
	}
	return x.scheduleJob(fire, quartz.NewRunOnceTrigger(delay), true)
}

// scheduleOnceID is the internal fast path used by await timeouts.
func (x *scheduler) scheduleOnceID(message *Message, dest ID, delay time.Duration) (TimerHandle, error) {
	fire, err := x.fireFunc(message, dest)
	if err != nil {
		return "", err
	}
	return x.scheduleJob(fire, quartz.NewRunOnceTrigger(delay), true)
}

// ScheduleAtFixedRate schedules repeated delivery of the message every
// period, first firing after initialDelay. Each fire sends a fresh copy.
func (x *scheduler) ScheduleAtFixedRate(message *Message, dest any, initialDelay, period time.Duration) (TimerHandle, error) {
	fire, err := x.fireFunc(message, dest)
	if err != nil {
		return "", err
	}
	if initialDelay == period {
		return x.scheduleJob(fire, quartz.NewSimpleTrigger(period), false)
	}

	// fire once after the initial delay, then hand over to the repeating
	// trigger under the same public handle
	handle := TimerHandle(uuid.NewString())
	first := job.NewFunctionJob[bool](func(ctx context.Context) (bool, error) {
		fire()
		repeatKey := quartz.NewJobKey(uuid.NewString())
		repeating := quartz.NewJobDetail(
			job.NewFunctionJob[bool](func(context.Context) (bool, error) {
				fire()
				return true, nil
			}),
			repeatKey,
		)
		x.mu.Lock()
		if _, live := x.jobs[handle]; live {
			x.jobs[handle] = repeatKey
			_ = x.quartzScheduler.ScheduleJob(repeating, quartz.NewSimpleTrigger(period))
		}
		x.mu.Unlock()
		return true, nil
	})

	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}
	firstKey := quartz.NewJobKey(uuid.NewString())
	if err := x.quartzScheduler.ScheduleJob(quartz.NewJobDetail(first, firstKey), quartz.NewRunOnceTrigger(initialDelay)); err != nil {
		return "", err
	}
	x.jobs[handle] = firstKey
	return handle, nil
}

// Cancel cancels the scheduled message bound to the handle.
func (x *scheduler) Cancel(handle TimerHandle) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	key, ok := x.jobs[handle]
	if !ok {
		return nil
	}
	delete(x.jobs, handle)
	return x.quartzScheduler.DeleteJob(key)
}

func (x *scheduler) scheduleJob(fire func(), trigger quartz.Trigger, oneShot bool) (TimerHandle, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}

	handle := TimerHandle(uuid.NewString())
	key := quartz.NewJobKey(string(handle))
	detail := quartz.NewJobDetail(
		job.NewFunctionJob[bool](func(context.Context) (bool, error) {
			fire()
			if oneShot {
				x.mu.Lock()
				delete(x.jobs, handle)
				x.mu.Unlock()
			}
			return true, nil
		}),
		key,
	)
	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return "", err
	}
	x.jobs[handle] = key
	return handle, nil
}

// fireFunc resolves the destination kind once and returns the closure run at
// every fire. Alias resolution happens per fire so re-bound aliases are
// honored.
func (x *scheduler) fireFunc(message *Message, dest any) (func(), error) {
	if message == nil {
		return nil, gerrors.ErrInvalidMessage
	}
	switch target := dest.(type) {
	case ID:
		return func() {
			x.system.route(userEnvelope(message.ShallowCopy(message.Source(), target)))
		}, nil
	case string:
		return func() {
			x.system.sendViaAlias(message.ShallowCopy(message.Source(), message.Dest()), target)
		}, nil
	default:
		return nil, gerrors.ErrInvalidMessage
	}
}
