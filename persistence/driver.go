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

// Package persistence defines the journal collaborator of the actor runtime:
// the Driver contract, a bbolt-backed default driver and the Service that
// serializes journal writes per actor.
package persistence

import (
	"context"
)

// Event is one journaled record of an actor.
type Event struct {
	// ActorID is the textual identity of the journaled actor.
	ActorID string
	// SequenceNr is the per-actor sequence number, starting at 1.
	SequenceNr uint64
	// Payload is the opaque event payload.
	Payload []byte
}

// Driver is the storage contract. Implementations must be safe for
// concurrent use; the Service already serializes writes per actor, but
// distinct actors persist in parallel.
type Driver interface {
	// Open prepares the driver for use.
	Open(ctx context.Context) error
	// Persist appends the payload to the actor's journal and returns the
	// assigned sequence number.
	Persist(ctx context.Context, actorID string, payload []byte) (uint64, error)
	// Recover streams the actor's journal in sequence order. The returned
	// channel is closed when the journal is exhausted.
	Recover(ctx context.Context, actorID string) (<-chan Event, error)
	// Close releases the driver.
	Close(ctx context.Context) error
}
