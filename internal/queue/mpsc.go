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

// Package queue provides the lock-free queues used by the dispatcher and the
// mailboxes.
package queue

import (
	"sync/atomic"
)

// node is a single link of the MPSC queue.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// MPSC is a lock-free multi-producer, single-consumer FIFO queue.
//
// It is safe for many producer goroutines to call Push concurrently, while
// exactly one consumer goroutine calls Pop. Ordering is preserved with respect
// to overall arrival order. Operations are non-blocking and rely on atomic
// pointer updates.
//
// The zero value is not ready for use; always construct via NewMPSC.
//
// Reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type MPSC[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
}

// NewMPSC returns a new, initialized MPSC queue.
func NewMPSC[T any]() *MPSC[T] {
	q := &MPSC[T]{}
	stub := &node[T]{}
	q.head.Store(stub)
	q.tail.Store(stub)
	return q
}

// Push appends the given value to the tail of the queue.
// It is safe to call concurrently from multiple goroutines.
func (q *MPSC[T]) Push(value T) {
	n := &node[T]{value: value}
	// Atomically swap the tail pointer and link the previous tail to this node
	prev := q.tail.Swap(n)
	prev.next.Store(n)
}

// Pop removes and returns the value at the head of the queue.
// It returns the zero value and false when the queue is empty. Pop must be
// called by exactly one consumer goroutine.
func (q *MPSC[T]) Pop() (T, bool) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		var zero T
		return zero, false
	}

	q.head.Store(next)
	value := next.value
	var zero T
	next.value = zero // avoid retaining popped values
	return value, true
}

// IsEmpty reports whether the queue currently holds no values. The result is a
// snapshot that may become stale immediately in the presence of producers.
func (q *MPSC[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}

// Len returns an approximate number of values currently queued. It performs an
// O(n) traversal and may race with concurrent producers.
func (q *MPSC[T]) Len() int64 {
	var count int64
	current := q.head.Load().next.Load()
	for current != nil {
		count++
		current = current.next.Load()
	}
	return count
}
