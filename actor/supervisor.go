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
	"reflect"
	"sync"
	"time"
)

// Directive represents the action a supervisor takes when a child actor fails
// during message processing.
type Directive int

const (
	// RestartDirective recreates the failing actor's internal state by
	// invoking its factory again. Identity, parent and mailbox are preserved;
	// children are stopped first. This is the default directive, bounded by
	// the supervisor's retry window.
	RestartDirective Directive = iota
	// ResumeDirective drops the offending message and keeps the actor's
	// state, letting it continue with the next message.
	ResumeDirective
	// StopDirective stops the failing actor.
	StopDirective
	// EscalateDirective rethrows the failure to the grandparent supervisor.
	EscalateDirective
)

func (d Directive) String() string {
	switch d {
	case RestartDirective:
		return "restart"
	case ResumeDirective:
		return "resume"
	case StopDirective:
		return "stop"
	case EscalateDirective:
		return "escalate"
	default:
		return "unknown"
	}
}

// SupervisorOption defines the various options to apply to a given Supervisor.
type SupervisorOption func(*Supervisor)

// WithDirective maps an error type to a directive. The mapping is keyed on
// the concrete error type of the failure.
func WithDirective(err error, directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.mu.Lock()
		s.directives[errorType(err)] = directive
		s.mu.Unlock()
	}
}

// WithAnyErrorDirective sets the directive applied to any error without a
// specific mapping.
func WithAnyErrorDirective(directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.mu.Lock()
		s.anyError = directive
		s.mu.Unlock()
	}
}

// WithRetry configures the restart budget: at most maxRetries restarts per
// withinTimeRange sliding window. Exceeding the budget stops the child.
func WithRetry(maxRetries int, withinTimeRange time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.mu.Lock()
		s.maxRetries = maxRetries
		s.withinTimeRange = withinTimeRange
		s.mu.Unlock()
	}
}

// Supervisor defines the rules a parent applies to a faulty child during
// message processing: which directive to take per error type, and how many
// restarts are allowed inside the sliding time window.
type Supervisor struct {
	mu              sync.Mutex
	maxRetries      int
	withinTimeRange time.Duration
	anyError        Directive
	directives      map[string]Directive
}

// NewSupervisor creates a supervisor with the default directive (restart) and
// the given options applied.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		anyError:   RestartDirective,
		directives: make(map[string]Directive),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Directive returns the directive associated with the given error.
func (s *Supervisor) Directive(err error) Directive {
	s.mu.Lock()
	defer s.mu.Unlock()
	if directive, ok := s.directives[errorType(err)]; ok {
		return directive
	}
	return s.anyError
}

// MaxRetries returns the maximum number of restarts inside the window.
func (s *Supervisor) MaxRetries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxRetries
}

// WithinTimeRange returns the width of the sliding restart window.
func (s *Supervisor) WithinTimeRange() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withinTimeRange
}

// errorType returns the string representation of an error's concrete type.
func errorType(err error) string {
	if err == nil {
		return "nil"
	}
	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}
	return rtype.String()
}
