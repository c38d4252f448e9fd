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

// Package workerpool provides an elastic goroutine pool with a bounded worker
// count, backing the resource executor.
package workerpool

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrPoolStopped is returned when submitting to a stopped pool.
var ErrPoolStopped = errors.New("worker pool is stopped")

// ErrPoolSaturated is returned when the task queue is full and the worker
// count has reached its maximum.
var ErrPoolSaturated = errors.New("worker pool is saturated")

const defaultIdleLifetime = time.Minute

// Pool runs submitted tasks on a bounded set of goroutines. Workers are
// spawned on demand up to the maximum and retired after sitting idle for the
// idle lifetime, keeping at least the minimum alive.
type Pool struct {
	minWorkers   int
	maxWorkers   int
	idleLifetime time.Duration

	tasks   chan func()
	workers *atomic.Int64
	wg      sync.WaitGroup

	// mu serializes Submit against Stop closing the task channel
	mu      sync.RWMutex
	stopped bool
}

// New creates a pool with worker count bounded by [minWorkers, maxWorkers] and
// a task queue of the given capacity.
func New(minWorkers, maxWorkers, queueCapacity int) *Pool {
	if minWorkers < 1 {
		minWorkers = 1
	}
	if maxWorkers < minWorkers {
		maxWorkers = minWorkers
	}
	if queueCapacity < 1 {
		queueCapacity = 1
	}
	return &Pool{
		minWorkers:   minWorkers,
		maxWorkers:   maxWorkers,
		idleLifetime: defaultIdleLifetime,
		tasks:        make(chan func(), queueCapacity),
		workers:      atomic.NewInt64(0),
	}
}

// Submit queues the given task for execution. It returns ErrPoolStopped after
// Stop and ErrPoolSaturated when the queue is full and no worker can be added.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		p.ensureWorker()
		return nil
	default:
	}

	// queue full: admit only if a new worker can drain it
	if p.spawnWorker() {
		select {
		case p.tasks <- task:
			return nil
		default:
			return ErrPoolSaturated
		}
	}
	return ErrPoolSaturated
}

// Workers returns the number of live workers.
func (p *Pool) Workers() int {
	return int(p.workers.Load())
}

// Stop rejects further submissions. When await is true it blocks until queued
// tasks have drained or the timeout elapses.
func (p *Pool) Stop(await bool, timeout time.Duration) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()
	if !await {
		return
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// ensureWorker grows the pool while the floor is not met or a backlog builds
// up below the ceiling.
func (p *Pool) ensureWorker() {
	count := p.workers.Load()
	if count < int64(p.minWorkers) || (len(p.tasks) > 0 && count < int64(p.maxWorkers)) {
		p.spawnWorker()
	}
}

func (p *Pool) spawnWorker() bool {
	for {
		count := p.workers.Load()
		if count >= int64(p.maxWorkers) {
			return false
		}
		if p.workers.CompareAndSwap(count, count+1) {
			break
		}
	}

	p.wg.Add(1)
	go p.workerLoop()
	return true
}

func (p *Pool) workerLoop() {
	defer p.wg.Done()
	defer p.workers.Dec()

	idle := time.NewTimer(p.idleLifetime)
	defer idle.Stop()

	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(p.idleLifetime)
		case <-idle.C:
			// retire unless this would drop the pool below its floor
			if p.workers.Load() > int64(p.minWorkers) {
				return
			}
			idle.Reset(p.idleLifetime)
		}
	}
}
