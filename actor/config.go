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
	"runtime"
	"time"

	"github.com/kestrelworks/kestrel/log"
	"github.com/kestrelworks/kestrel/persistence"
)

// Default configuration values.
const (
	// DefaultThroughput is the per-cell batch budget: the number of messages
	// a worker processes per visit to a cell before moving on.
	DefaultThroughput = 32
	// DefaultMaxResourceThreads caps the resource executor pool.
	DefaultMaxResourceThreads = 64
	// DefaultBufferQueueSize is the resource executor task queue capacity.
	DefaultBufferQueueSize = 1024
	// DefaultMaxRetries is the restart budget inside the sliding window.
	DefaultMaxRetries = 15
	// DefaultWithinTimeRange is the width of the sliding restart window.
	DefaultWithinTimeRange = 2 * time.Second
	// DefaultWatchdogSyncTime is the probe round interval.
	DefaultWatchdogSyncTime = 5 * time.Second
	// DefaultHPASyncTime is the pod controller callback interval.
	DefaultHPASyncTime = 15 * time.Second
	// DefaultAwaitTerminationTimeout bounds shutdown draining.
	DefaultAwaitTerminationTimeout = 5 * time.Second
)

// config holds the recognized system options.
type config struct {
	parallelism       int
	parallelismFactor int

	maxResourceThreads int
	bufferQueueSize    int

	throughput int
	queueSize  int

	maxRetries      int
	withinTimeRange time.Duration

	watchdogEnabled  bool
	watchdogSyncTime time.Duration

	hpaEnabled  bool
	hpaSyncTime time.Duration

	persistenceMode   bool
	persistenceDriver persistence.Driver

	awaitTerminationTimeout time.Duration

	logger            log.Logger
	deadLetterHandler DeadLetterHandler
	podController     PodController
}

func defaultConfig() *config {
	return &config{
		parallelism:             runtime.NumCPU(),
		parallelismFactor:       1,
		maxResourceThreads:      DefaultMaxResourceThreads,
		bufferQueueSize:         DefaultBufferQueueSize,
		throughput:              DefaultThroughput,
		queueSize:               0,
		maxRetries:              DefaultMaxRetries,
		withinTimeRange:         DefaultWithinTimeRange,
		watchdogEnabled:         false,
		watchdogSyncTime:        DefaultWatchdogSyncTime,
		hpaEnabled:              false,
		hpaSyncTime:             DefaultHPASyncTime,
		awaitTerminationTimeout: DefaultAwaitTerminationTimeout,
		logger:                  log.DefaultLogger,
	}
}
