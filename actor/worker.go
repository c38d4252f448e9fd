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
	"runtime"
	"runtime/debug"

	"go.uber.org/atomic"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/internal/queue"
)

// spinRounds is the number of Gosched rounds a worker burns before parking.
const spinRounds = 16

// worker owns a disjoint partition of cells and runs their reception loops.
// Activated cells arrive on the MPSC run queue; the worker parks on its
// notify channel when there is nothing to do.
type worker struct {
	index      int
	system     *ActorSystem
	runQueue   *queue.MPSC[*Cell]
	notifyC    chan struct{}
	stopC      chan struct{}
	doneC      chan struct{}
	throughput int
	processed  *atomic.Uint64
}

func newWorker(system *ActorSystem, index, throughput int) *worker {
	return &worker{
		index:      index,
		system:     system,
		runQueue:   queue.NewMPSC[*Cell](),
		notifyC:    make(chan struct{}, 1),
		stopC:      make(chan struct{}),
		doneC:      make(chan struct{}),
		throughput: throughput,
		processed:  atomic.NewUint64(0),
	}
}

func (w *worker) start() {
	go w.loop()
}

func (w *worker) stop() {
	close(w.stopC)
}

func (w *worker) await() {
	<-w.doneC
}

// enqueue schedules an activated cell on this worker and wakes it. Safe to
// call from any goroutine.
func (w *worker) enqueue(c *Cell) {
	w.runQueue.Push(c)
	w.wake()
}

func (w *worker) wake() {
	select {
	case w.notifyC <- struct{}{}:
	default:
	}
}

// loop drains the run queue, running each activated cell for up to the batch
// budget, then parks until awakened. A fault escaping a batch is routed to
// the failsafe registry and the loop continues; if the loop itself dies the
// watchdog will flag the worker.
func (w *worker) loop() {
	defer close(w.doneC)
	for {
		if cell, ok := w.runQueue.Pop(); ok {
			w.runCell(cell)
			continue
		}

		// short spin before parking: another producer is often mid-push
		idle := 0
		for idle < spinRounds && w.runQueue.IsEmpty() {
			runtime.Gosched()
			idle++
		}
		if !w.runQueue.IsEmpty() {
			continue
		}

		select {
		case <-w.notifyC:
		case <-w.stopC:
			return
		}
	}
}

// runCell runs one batch for the cell and settles its activation flag,
// re-queueing when work remains. The deactivation order (store false, then
// re-check) pairs with the producer-side enqueue-then-CAS to rule out lost
// wake-ups.
func (w *worker) runCell(c *Cell) {
	defer func() {
		if r := recover(); r != nil {
			w.system.failsafe.notify(gerrors.NewPanicError(r, debug.Stack()), FailsafeActor, c.id)
			c.activation.Store(false)
		}
	}()

	w.processed.Add(c.processBatch(w.throughput))

	if !c.drained() {
		// budget exhausted, the cell stays active
		w.runQueue.Push(c)
		return
	}

	c.activation.Store(false)
	if !c.drained() && c.activation.CompareAndSwap(false, true) {
		w.runQueue.Push(c)
	}
}
