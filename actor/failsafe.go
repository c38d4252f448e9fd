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
	"sync"

	"github.com/kestrelworks/kestrel/log"
)

// Failsafe classifications passed to error handlers with every unhandled
// fault.
const (
	FailsafeActor            = "actor"
	FailsafeResource         = "resource"
	FailsafeInitialization   = "initialization"
	FailsafeWatchdog         = "watchdog"
	FailsafeReplication      = "replication"
	FailsafeExecuterResource = "executer_resource"
	FailsafeExecuterClient   = "executer_client"
	FailsafePseudo           = "pseudo"
)

// ErrorHandler consumes unhandled faults caught by core threads, with a
// classification and the offending identity (NoID when not actor-bound).
type ErrorHandler func(err error, classification string, id ID)

// failsafeManager is the centralized error-handler registry. Every unhandled
// fault in the runtime flows through notify; handlers never see user actors.
type failsafeManager struct {
	mu       sync.RWMutex
	handlers []ErrorHandler
	logger   log.Logger
}

func newFailsafeManager(logger log.Logger) *failsafeManager {
	m := &failsafeManager{logger: logger}
	m.handlers = append(m.handlers, m.defaultHandler)
	return m
}

// register adds an error handler. Handlers run in registration order.
func (m *failsafeManager) register(handler ErrorHandler) {
	m.mu.Lock()
	m.handlers = append(m.handlers, handler)
	m.mu.Unlock()
}

// notify fans the fault out to every registered handler. A panicking handler
// is contained so the notification chain always completes.
func (m *failsafeManager) notify(err error, classification string, id ID) {
	m.mu.RLock()
	handlers := make([]ErrorHandler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Errorf("[SAFETY] error handler panicked: %v", r)
				}
			}()
			handler(err, classification, id)
		}()
	}
}

func (m *failsafeManager) defaultHandler(err error, classification string, id ID) {
	switch classification {
	case FailsafeInitialization:
		m.logger.Errorf("[SAFETY] exception in initialization of actor %s: %v", id, err)
	case FailsafeActor, FailsafeResource, FailsafePseudo:
		m.logger.Errorf("[SAFETY] exception in actor %s: %v", id, err)
	case FailsafeReplication:
		m.logger.Errorf("[SAFETY][FATAL] exception in pod replication controller: %v", err)
	case FailsafeWatchdog:
		m.logger.Errorf("[FAILSAFE] exception in watchdog: %v", err)
	case FailsafeExecuterResource:
		m.logger.Errorf("[SAFETY][EXECUTER][REJECTION] exception in resource actor %s: %v", id, err)
	case FailsafeExecuterClient:
		m.logger.Errorf("[SAFETY][EXECUTER][REJECTION] exception in sending a message as a client: %v", err)
	default:
		m.logger.Errorf("[SAFETY][FATAL] exception in thread/runnable: %v", err)
	}
}
