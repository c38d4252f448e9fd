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

// Mailbox defines the contract for an actor's message queue.
//
// Concurrency and ordering
//   - Implementations MUST be thread-safe for multiple concurrent producers
//     calling Enqueue.
//   - The runtime consumes from a single goroutine at a time (cell-level
//     mutual exclusion), so implementations SHOULD optimize Dequeue for a
//     single consumer (MPSC).
//   - The default expectation is FIFO ordering.
//
// Non-blocking behavior
//   - Enqueue SHOULD be non-blocking. A bounded implementation either returns
//     an error when full or blocks until space frees up; BoundedMailbox blocks
//     until space frees up or the mailbox is disposed.
//   - Dequeue SHOULD be non-blocking and return nil when the mailbox is empty.
//
// Memory visibility
//   - Implementations MUST ensure that writes performed by producers before
//     Enqueue are visible to the consumer after Dequeue.
type Mailbox interface {
	// Enqueue pushes an envelope into the mailbox.
	Enqueue(env *Envelope) error
	// Dequeue fetches an envelope from the mailbox, nil when empty.
	Dequeue() *Envelope
	// IsEmpty reports whether the mailbox currently has no messages.
	// This is a best-effort snapshot under concurrency.
	IsEmpty() bool
	// Len returns a snapshot of the number of messages in the mailbox.
	// Implementations MAY return an approximate value under concurrency.
	Len() int64
	// Dispose releases any resources held by the implementation. The mailbox
	// MUST NOT be used after Dispose returns.
	Dispose()
}
