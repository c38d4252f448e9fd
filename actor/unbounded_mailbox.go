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
	"github.com/kestrelworks/kestrel/internal/queue"
)

// UnboundedMailbox is a lock-free multi-producer, single-consumer (MPSC)
// FIFO queue used as the default actor mailbox.
//
// It is safe for many producer goroutines to call Enqueue concurrently, while
// exactly one consumer goroutine calls Dequeue. Ordering is preserved (FIFO)
// with respect to overall arrival order. Operations are non-blocking.
//
// The mailbox is unbounded: if producers outpace the consumer, memory usage
// can grow without limit. Use a BoundedMailbox when backpressure is needed.
//
// The zero value of UnboundedMailbox is not ready for use; always construct
// via NewUnboundedMailbox.
type UnboundedMailbox struct {
	underlying *queue.MPSC[*Envelope]
}

// enforces compilation error
var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox returns a new, initialized UnboundedMailbox.
func NewUnboundedMailbox() *UnboundedMailbox {
	return &UnboundedMailbox{
		underlying: queue.NewMPSC[*Envelope](),
	}
}

// Enqueue appends the given envelope to the tail of the mailbox. It is safe
// to call concurrently from multiple goroutines and always returns nil; the
// error is present to satisfy the Mailbox interface.
func (m *UnboundedMailbox) Enqueue(env *Envelope) error {
	m.underlying.Push(env)
	return nil
}

// Dequeue removes and returns the next envelope at the head of the mailbox,
// nil when empty. It must be called by exactly one consumer goroutine at a
// time.
func (m *UnboundedMailbox) Dequeue() *Envelope {
	env, ok := m.underlying.Pop()
	if !ok {
		return nil
	}
	return env
}

// IsEmpty reports whether the mailbox currently holds no messages. The result
// is a snapshot that may become stale immediately in the presence of
// concurrent producers.
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.underlying.IsEmpty()
}

// Len returns an approximate number of messages currently in the mailbox.
// This performs an O(n) traversal; avoid calling it in hot paths.
func (m *UnboundedMailbox) Len() int64 {
	return m.underlying.Len()
}

// Dispose implements the Mailbox interface. For UnboundedMailbox this is a
// no-op provided for interface compliance.
func (m *UnboundedMailbox) Dispose() {}
