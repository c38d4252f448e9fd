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

// Envelope is the unit stored in mailboxes. User messages travel with
// signalNone; internal control flow sets a signal and never reaches user
// behaviors. Keeping the signal on the envelope rather than overloading the
// message tag keeps the reserved tag range purely informational.
type Envelope struct {
	to      ID
	message *Message
	signal  signal
	err     error
	child   ID
}

// Message returns the user message carried by the envelope, nil for pure
// control signals.
func (e *Envelope) Message() *Message {
	return e.message
}

// To returns the destination identity of the envelope.
func (e *Envelope) To() ID {
	return e.to
}

// isSignal reports whether the envelope carries internal control flow.
func (e *Envelope) isSignal() bool {
	return e.signal != signalNone
}

// userEnvelope wraps a user message for delivery.
func userEnvelope(msg *Message) *Envelope {
	return &Envelope{to: msg.Dest(), message: msg}
}

// signalEnvelope creates a control envelope addressed to the given cell.
func signalEnvelope(to ID, sig signal) *Envelope {
	return &Envelope{to: to, signal: sig}
}

// failureEnvelope creates the control envelope a failing child sends to its
// parent.
func failureEnvelope(parent, child ID, reason error) *Envelope {
	return &Envelope{to: parent, signal: signalFailure, child: child, err: reason}
}

// ackEnvelope creates the stop acknowledgement a stopped child sends to its
// parent.
func ackEnvelope(parent, child ID) *Envelope {
	return &Envelope{to: parent, signal: signalStopSuccess, child: child}
}

// healthEnvelope creates the liveness probe envelope. The reply goes to
// collector.
func healthEnvelope(to, collector ID) *Envelope {
	return &Envelope{
		to:      to,
		signal:  signalHealthCheck,
		message: NewMessage(nil, HealthCheck, WithSource(collector), WithDest(to)),
	}
}
