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

import "math"

// Reserved message tags. User tags must be zero or positive and below Up;
// the runtime keeps the negative range and the two top values for messages it
// synthesizes itself. A user message carrying a reserved tag is still treated
// as a user message: internal control flow rides the envelope signal, never
// the tag.
const (
	// Stop asks an actor to stop after its children have stopped.
	Stop int32 = -1
	// StopSuccess acknowledges a completed stop. Watchers observe it as Terminated.
	StopSuccess int32 = -2
	// Kill stops an actor immediately, discarding its pending messages.
	Kill int32 = -3
	// Restart asks an actor to recreate its internal state.
	Restart int32 = -4
	// HealthCheck probes an actor for liveness.
	HealthCheck int32 = -5
	// Activate resumes delivery of user messages to a deactivated actor.
	Activate int32 = -6
	// Deactivate suspends delivery of user messages to an actor.
	Deactivate int32 = -7

	// Up is the liveness reply to HealthCheck.
	Up int32 = math.MaxInt32 - 1
	// Timeout is carried by timer-generated timeout self-messages.
	Timeout int32 = math.MaxInt32
)

// Aliases kept for readability at call sites.
const (
	// PoisonPill is a synonym for Stop.
	PoisonPill = Stop
	// Terminated tags the message a watcher receives when a watched actor stopped.
	Terminated = StopSuccess
	// Health is a synonym for HealthCheck.
	Health = HealthCheck
)

// IsReservedTag reports whether the given tag belongs to the runtime.
func IsReservedTag(tag int32) bool {
	return tag < 0 || tag >= Up
}

// signal enumerates the internal control messages routed through the priority
// lane. Signals are dispatched by the cell itself and never reach user
// behaviors.
type signal int32

const (
	signalNone signal = iota
	signalStop
	signalStopSuccess
	signalKill
	signalRestart
	signalResume
	signalFailure
	signalHealthCheck
	signalActivate
	signalDeactivate
)

func (s signal) String() string {
	switch s {
	case signalNone:
		return "none"
	case signalStop:
		return "stop"
	case signalStopSuccess:
		return "stop_success"
	case signalKill:
		return "kill"
	case signalRestart:
		return "restart"
	case signalResume:
		return "resume"
	case signalFailure:
		return "failure"
	case signalHealthCheck:
		return "health_check"
	case signalActivate:
		return "activate"
	case signalDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}
