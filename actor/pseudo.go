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
	"context"
	"runtime/debug"
	"time"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/internal/future"
)

// pseudoState is the payload of a pseudo-cell: a transient, worker-less cell
// used to terminate request/reply exchanges and watchdog rounds. Delivery
// happens inline on the producer goroutine; the handler must be thread-safe.
type pseudoState struct {
	onMessage func(*Message)
}

// deliverPseudo runs a delivered message through the pseudo handler,
// trapping panics into the failsafe registry.
func (s *ActorSystem) deliverPseudo(cell *Cell, env *Envelope) {
	if env.isSignal() || env.message == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.failsafe.notify(gerrors.NewPanicError(r, debug.Stack()), FailsafePseudo, cell.id)
		}
	}()
	cell.pseudo.onMessage(env.message)
}

// newPseudoCell registers a transient pseudo-cell whose handler consumes
// every message addressed to it. The caller must unregister it.
func (s *ActorSystem) newPseudoCell(onMessage func(*Message)) ID {
	id := NewID()
	cell := &Cell{
		id:       id,
		system:   s,
		isPseudo: true,
		pseudo:   &pseudoState{onMessage: onMessage},
	}
	s.registry.registerPseudo(cell)
	return id
}

// Ask implements synchronous request/reply on top of asynchronous messaging:
// the message is sent from a transient pseudo-cell and the first reply
// addressed to it resolves the call. The message's interaction identity is
// preserved end to end.
func (s *ActorSystem) Ask(ctx context.Context, msg *Message, timeout time.Duration) (*Message, error) {
	if !s.isRunning() {
		return nil, gerrors.ErrSystemNotStarted
	}
	if msg == nil || msg.Dest().IsNil() {
		return nil, gerrors.ErrInvalidMessage
	}
	if timeout <= 0 {
		return nil, gerrors.ErrInvalidTimeout
	}

	latch := future.New[*Message]()
	pseudoID := s.newPseudoCell(func(reply *Message) {
		latch.Complete(reply)
	})
	defer s.registry.unregisterPseudo(pseudoID)

	s.route(userEnvelope(msg.ShallowCopy(pseudoID, msg.Dest())))

	reply, err := latch.Await(ctx, timeout)
	if err != nil {
		if err == future.ErrFutureTimeout {
			return nil, gerrors.ErrRequestTimeout
		}
		return nil, err
	}
	return reply, nil
}
