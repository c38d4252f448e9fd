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
	"fmt"
	"runtime/debug"
	"time"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/internal/workerpool"
)

// resourceExecutor runs cells flagged as resource actors off the worker
// threads, on an elastic pool sized [parallelism, maxResourceThreads].
// Resource handlers may block without starving worker-owned cells.
type resourceExecutor struct {
	system *ActorSystem
	pool   *workerpool.Pool
	batch  int
}

func newResourceExecutor(system *ActorSystem, parallelism, maxThreads, queueCapacity, batch int) *resourceExecutor {
	return &resourceExecutor{
		system: system,
		pool:   workerpool.New(parallelism, maxThreads, queueCapacity),
		batch:  batch,
	}
}

// schedule admits the cell to the pool. The activation flag doubles as the
// single-flight admission: only one submission per cell is in flight at a
// time. A pool rejection is reported through the failsafe registry.
func (r *resourceExecutor) schedule(c *Cell) {
	if !c.activation.CompareAndSwap(false, true) {
		return
	}
	if err := r.pool.Submit(func() { r.run(c) }); err != nil {
		c.activation.Store(false)
		r.system.failsafe.notify(
			fmt.Errorf("%w: %v", gerrors.ErrResourceRejected, err),
			FailsafeExecuterResource,
			c.id,
		)
	}
}

// run executes one batch for the cell, then settles the activation flag with
// the same lost-wakeup-free protocol the workers use, re-admitting the cell
// when work remains.
func (r *resourceExecutor) run(c *Cell) {
	defer func() {
		if rec := recover(); rec != nil {
			r.system.failsafe.notify(gerrors.NewPanicError(rec, debug.Stack()), FailsafeResource, c.id)
			c.activation.Store(false)
		}
	}()

	c.processBatch(r.batch)

	if !c.drained() {
		r.resubmit(c)
		return
	}

	c.activation.Store(false)
	if !c.drained() && c.activation.CompareAndSwap(false, true) {
		r.resubmit(c)
	}
}

func (r *resourceExecutor) resubmit(c *Cell) {
	if err := r.pool.Submit(func() { r.run(c) }); err != nil {
		c.activation.Store(false)
		r.system.failsafe.notify(
			fmt.Errorf("%w: %v", gerrors.ErrResourceRejected, err),
			FailsafeExecuterResource,
			c.id,
		)
	}
}

func (r *resourceExecutor) stop(await bool, timeout time.Duration) {
	r.pool.Stop(await, timeout)
}
