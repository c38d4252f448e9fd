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
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	gerrors "github.com/kestrelworks/kestrel/errors"
)

func TestSupervisorDefaults(t *testing.T) {
	s := NewSupervisor()
	assert.Equal(t, RestartDirective, s.Directive(errors.New("anything")))
	assert.Equal(t, 0, s.MaxRetries())
}

func TestSupervisorDirectiveByErrorType(t *testing.T) {
	s := NewSupervisor(
		WithDirective(&gerrors.PanicError{}, StopDirective),
		WithAnyErrorDirective(ResumeDirective),
	)

	panicErr := gerrors.NewPanicError("boom", nil)
	assert.Equal(t, StopDirective, s.Directive(panicErr))
	assert.Equal(t, ResumeDirective, s.Directive(io.EOF))
}

func TestSupervisorRetryOption(t *testing.T) {
	s := NewSupervisor(WithRetry(7, 3*time.Second))
	assert.Equal(t, 7, s.MaxRetries())
	assert.Equal(t, 3*time.Second, s.WithinTimeRange())
}

func TestDirectiveString(t *testing.T) {
	assert.Equal(t, "restart", RestartDirective.String())
	assert.Equal(t, "resume", ResumeDirective.String())
	assert.Equal(t, "stop", StopDirective.String())
	assert.Equal(t, "escalate", EscalateDirective.String())
}

func TestLifecycleString(t *testing.T) {
	assert.Equal(t, "CREATED", Created.String())
	assert.Equal(t, "STARTED", Started.String())
	assert.Equal(t, "RUNNING", Running.String())
	assert.Equal(t, "RESTARTING", Restarting.String())
	assert.Equal(t, "STOPPING", Stopping.String())
	assert.Equal(t, "STOPPED", Stopped.String())
}
