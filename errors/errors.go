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

// Package errors defines the sentinel errors shared across the runtime.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrAliasNotBound reports an alias that resolves to no registered actor.
	// The actor runtime does not return it: a send to an unbound alias goes to
	// the dead-letter sink.
	ErrAliasNotBound = errors.New("alias is not bound")

	// ErrInvalidMessage indicates that a message is structurally or semantically invalid.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidTag reports a tag inside the reserved range. The actor runtime
	// does not return it: a user message carrying a reserved tag is delivered
	// as a user message.
	ErrInvalidTag = errors.New("tag is inside the reserved range")

	// ErrSystemNotStarted indicates that the actor system has not been started before use.
	ErrSystemNotStarted = errors.New("actor system is not running")

	// ErrSystemStopped indicates that the actor system has been shut down.
	ErrSystemStopped = errors.New("actor system is stopped")

	// ErrSchedulerNotStarted is returned when attempting to use the timer service before it has started.
	ErrSchedulerNotStarted = errors.New("timer service has not started")

	// ErrStashBufferNotSet is returned when an actor tries to stash a message but no stash buffer is configured.
	ErrStashBufferNotSet = errors.New("actor is not setup with a stash buffer")

	// ErrStashEmpty is returned when popping from an empty stash.
	ErrStashEmpty = errors.New("stash buffer is empty")

	// ErrRequestTimeout indicates that a request/reply exchange timed out while waiting for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInitFailure is returned when the actor's PreStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrResourceRejected is returned when the resource executor refuses a task.
	ErrResourceRejected = errors.New("resource executor rejected the task")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrNameTaken is returned when a sibling with the same name already exists.
	ErrNameTaken = errors.New("actor name already taken")

	// ErrBehaviorStackEmpty is returned when unbecome is invoked with no pushed behavior.
	ErrBehaviorStackEmpty = errors.New("behavior stack is empty")

	// ErrPersistenceDisabled is returned when persistence is used without a driver configured.
	ErrPersistenceDisabled = errors.New("persistence mode is not enabled")
)

// PanicError wraps a recovered panic value so it can travel the supervision
// path as a regular error.
type PanicError struct {
	value any
	stack []byte
}

// NewPanicError creates a PanicError from a recovered value and the captured stack.
func NewPanicError(value any, stack []byte) *PanicError {
	return &PanicError{value: value, stack: stack}
}

// Value returns the recovered panic value.
func (e *PanicError) Value() any {
	return e.value
}

// Stack returns the goroutine stack captured at recovery time.
func (e *PanicError) Stack() []byte {
	return e.stack
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}
