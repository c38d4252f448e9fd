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
	"time"

	"github.com/kestrelworks/kestrel/log"
	"github.com/kestrelworks/kestrel/persistence"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(cfg *config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*config)

func (f OptionFunc) Apply(cfg *config) {
	f(cfg)
}

// WithParallelism sets the number of worker threads. It defaults to the
// hardware parallelism.
func WithParallelism(parallelism int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.parallelism = parallelism
	})
}

// WithParallelismFactor sets the multiplier applied to parallelism when
// sizing the persistence journal workers.
func WithParallelismFactor(factor int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.parallelismFactor = factor
	})
}

// WithMaxResourceThreads caps the resource executor pool.
func WithMaxResourceThreads(maxThreads int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.maxResourceThreads = maxThreads
	})
}

// WithBufferQueueSize sets the resource executor task queue capacity.
func WithBufferQueueSize(size int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.bufferQueueSize = size
	})
}

// WithThroughput sets the per-cell batch budget per worker visit.
func WithThroughput(throughput int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.throughput = throughput
	})
}

// WithQueueSize bounds every actor's normal mailbox. Zero keeps mailboxes
// unbounded.
func WithQueueSize(size int) Option {
	return OptionFunc(func(cfg *config) {
		cfg.queueSize = size
	})
}

// WithSupervisionRetry sets the default restart budget: at most maxRetries
// restarts per withinTimeRange sliding window.
func WithSupervisionRetry(maxRetries int, withinTimeRange time.Duration) Option {
	return OptionFunc(func(cfg *config) {
		cfg.maxRetries = maxRetries
		cfg.withinTimeRange = withinTimeRange
	})
}

// WithWatchdog enables the worker liveness watchdog with the given probe
// interval.
func WithWatchdog(syncTime time.Duration) Option {
	return OptionFunc(func(cfg *config) {
		cfg.watchdogEnabled = true
		if syncTime > 0 {
			cfg.watchdogSyncTime = syncTime
		}
	})
}

// WithPodController enables the horizontal pod autoscaler callback with the
// given sync interval.
func WithPodController(controller PodController, syncTime time.Duration) Option {
	return OptionFunc(func(cfg *config) {
		cfg.hpaEnabled = controller != nil
		cfg.podController = controller
		if syncTime > 0 {
			cfg.hpaSyncTime = syncTime
		}
	})
}

// WithPersistence enables persistence mode with the given journal driver.
func WithPersistence(driver persistence.Driver) Option {
	return OptionFunc(func(cfg *config) {
		cfg.persistenceMode = driver != nil
		cfg.persistenceDriver = driver
	})
}

// WithAwaitTerminationTimeout bounds shutdown draining.
func WithAwaitTerminationTimeout(timeout time.Duration) Option {
	return OptionFunc(func(cfg *config) {
		cfg.awaitTerminationTimeout = timeout
	})
}

// WithLogger sets the system logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(cfg *config) {
		cfg.logger = logger
	})
}

// WithDeadLetterHandler overrides the dead-letter sink handler. The default
// logs and drops.
func WithDeadLetterHandler(handler DeadLetterHandler) Option {
	return OptionFunc(func(cfg *config) {
		cfg.deadLetterHandler = handler
	})
}
