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
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/kestrelworks/kestrel/errors"
	"github.com/kestrelworks/kestrel/internal/ticker"
)

// WatchdogTopic is the event-stream topic non-responsiveness reports are
// published on.
const WatchdogTopic = "watchdog"

// WatchdogReport is published after every probe round.
type WatchdogReport struct {
	// Round is the probe round number, starting at 1.
	Round uint64
	// NonResponsive holds the worker indexes whose probe did not answer
	// within the grace period.
	NonResponsive []int
	// At is the time the round was evaluated.
	At time.Time
}

// watchdog periodically probes one actor per worker with a HealthCheck and
// expects Up back within the sync interval. Workers whose probe did not
// reply are reported as non-responsive; the watchdog never acts on
// non-responsiveness beyond reporting it.
type watchdog struct {
	system   *ActorSystem
	syncTime time.Duration
	ticker   *ticker.Ticker
	stopC    chan struct{}
	doneC    chan struct{}

	probes  []ID
	byProbe map[ID]int

	round    *atomic.Uint64
	lastSeen []*atomic.Int64

	mu            sync.Mutex
	nonResponsive []int
}

func newWatchdog(system *ActorSystem, syncTime time.Duration) *watchdog {
	return &watchdog{
		system:   system,
		syncTime: syncTime,
		stopC:    make(chan struct{}),
		doneC:    make(chan struct{}),
		byProbe:  make(map[ID]int),
		round:    atomic.NewUint64(0),
	}
}

// start registers one probe actor per worker in a distributed group and
// begins the probe loop.
func (w *watchdog) start() error {
	parallelism := w.system.dispatcher.parallelism()
	group := NewDistributedGroup()
	for i := 0; i < parallelism; i++ {
		id, err := w.system.spawnSystemActor(
			Func(nil),
			WithName(fmt.Sprintf("watchdog-%d", i)),
			WithGroup(group),
		)
		if err != nil {
			return err
		}
		w.probes = append(w.probes, id)
		w.byProbe[id] = i
		w.lastSeen = append(w.lastSeen, atomic.NewInt64(0))
	}

	w.ticker = ticker.New(w.syncTime)
	w.ticker.Start()
	go w.loop()
	return nil
}

func (w *watchdog) stop() {
	close(w.stopC)
	<-w.doneC
}

func (w *watchdog) loop() {
	defer close(w.doneC)
	defer w.ticker.Stop()
	for {
		select {
		case <-w.ticker.Ticks:
			w.probeRound()
		case <-w.stopC:
			return
		}
	}
}

// probeRound broadcasts HealthCheck to every probe and evaluates the replies
// after a grace period of half the sync interval.
func (w *watchdog) probeRound() {
	defer func() {
		if r := recover(); r != nil {
			w.system.failsafe.notify(fmt.Errorf("%v", r), FailsafeWatchdog, NoID)
		}
	}()

	round := w.round.Inc()
	start := time.Now()

	collector := w.system.newPseudoCell(func(reply *Message) {
		if reply.Tag() != Up {
			return
		}
		if index, ok := w.byProbe[reply.Source()]; ok {
			w.lastSeen[index].Store(time.Now().UnixNano())
		}
	})
	defer w.system.registry.unregisterPseudo(collector)

	for _, probe := range w.probes {
		w.system.route(healthEnvelope(probe, collector))
	}

	grace := w.syncTime / 2
	select {
	case <-time.After(grace):
	case <-w.stopC:
		return
	}

	var lagging []int
	for i, seen := range w.lastSeen {
		if seen.Load() < start.UnixNano() {
			lagging = append(lagging, i)
		}
	}

	w.mu.Lock()
	w.nonResponsive = lagging
	w.mu.Unlock()

	if len(lagging) > 0 {
		w.system.logger.Warnf("watchdog: non-responsive workers %v (round %d)", lagging, round)
		w.system.failsafe.notify(
			fmt.Errorf("%w: workers %v unresponsive", gerrors.ErrDead, lagging),
			FailsafeWatchdog,
			NoID,
		)
	}
	report := &WatchdogReport{
		Round:         round,
		NonResponsive: lagging,
		At:            time.Now(),
	}
	w.system.events.Publish(WatchdogTopic, report)
	w.system.watchdogHandlers.invoke(report)
}

// nonResponsiveWorkers returns the worker indexes flagged by the last round.
func (w *watchdog) nonResponsiveWorkers() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]int, len(w.nonResponsive))
	copy(out, w.nonResponsive)
	return out
}
