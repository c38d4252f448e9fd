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

// Package future provides a single-completion latch used by pseudo-cells and
// the persistence journal.
package future

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrFutureTimeout is returned when the future times out.
var ErrFutureTimeout = errors.New("future timeout")

// ErrFutureCanceled is returned when the future is canceled before completion.
var ErrFutureCanceled = errors.New("future canceled")

// Future is a write-once latch. Complete may be called from any goroutine;
// only the first call wins.
type Future[T any] struct {
	once    sync.Once
	done    chan struct{}
	value   T
	failure error
}

// New creates an instance of Future.
func New[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Complete resolves the future with the given value. Subsequent calls are no-ops.
func (f *Future[T]) Complete(value T) {
	f.once.Do(func() {
		f.value = value
		close(f.done)
	})
}

// Fail resolves the future with the given error. Subsequent calls are no-ops.
func (f *Future[T]) Fail(err error) {
	f.once.Do(func() {
		f.failure = err
		close(f.done)
	})
}

// Cancel resolves the future with ErrFutureCanceled.
func (f *Future[T]) Cancel() {
	f.Fail(ErrFutureCanceled)
}

// Await blocks until the future resolves, the deadline elapses or the context
// is canceled.
func (f *Future[T]) Await(ctx context.Context, deadline time.Duration) (T, error) {
	var zero T
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.failure
	case <-timer.C:
		return zero, ErrFutureTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// AwaitUninterruptible blocks until the future resolves or the context is
// canceled.
func (f *Future[T]) AwaitUninterruptible(ctx context.Context) (T, error) {
	var zero T
	select {
	case <-f.done:
		return f.value, f.failure
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// IsDone reports whether the future has resolved.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
