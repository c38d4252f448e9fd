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

// dispatcher maps actor identities to worker threads. Ownership is assigned
// once at registration using a stable hash of the identity, optionally bent
// by an affinity group hint.
type dispatcher struct {
	system  *ActorSystem
	workers []*worker
}

func newDispatcher(system *ActorSystem, parallelism, throughput int) *dispatcher {
	workers := make([]*worker, parallelism)
	for i := range workers {
		workers[i] = newWorker(system, i, throughput)
	}
	return &dispatcher{
		system:  system,
		workers: workers,
	}
}

func (d *dispatcher) start() {
	for _, w := range d.workers {
		w.start()
	}
}

func (d *dispatcher) stop() {
	for _, w := range d.workers {
		w.stop()
	}
	for _, w := range d.workers {
		w.await()
	}
}

func (d *dispatcher) parallelism() int {
	return len(d.workers)
}

// assign picks the owning worker for a new cell. Without a hint the identity
// hash decides. A distributed group spreads members across workers
// round-robin; a balanced group co-locates all members on one worker.
func (d *dispatcher) assign(id ID, group *Group) *worker {
	count := uint64(len(d.workers))
	if group != nil {
		switch group.kind {
		case DistributedGroup:
			return d.workers[uint64(group.next.Inc()-1)%count]
		case BalancedGroup:
			home := group.home.Load()
			if home < 0 {
				candidate := int32(id.hash64() % count)
				if group.home.CompareAndSwap(-1, candidate) {
					home = candidate
				} else {
					home = group.home.Load()
				}
			}
			return d.workers[home]
		}
	}
	return d.workers[id.hash64()%count]
}

// counts returns the per-worker processed message counters.
func (d *dispatcher) counts() []uint64 {
	out := make([]uint64, len(d.workers))
	for i, w := range d.workers {
		out[i] = w.processed.Load()
	}
	return out
}
