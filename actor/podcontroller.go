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
	"fmt"

	"github.com/kestrelworks/kestrel/internal/ticker"
)

// PodController is the horizontal pod autoscaler collaborator. The runtime
// only drives the periodic callback; scaling policy and any external API
// calls live entirely on the implementer's side.
type PodController interface {
	// Sync is called once per sync interval with a snapshot of the system
	// metric.
	Sync(ctx context.Context, metric Metric) error
}

// podControllerRunner drives the PodController callback on its own loop.
// Errors and panics are reported through the failsafe registry with the
// replication classification and never disturb the core.
type podControllerRunner struct {
	system     *ActorSystem
	controller PodController
	ticker     *ticker.Ticker
	stopC      chan struct{}
	doneC      chan struct{}
}

func newPodControllerRunner(system *ActorSystem, controller PodController) *podControllerRunner {
	return &podControllerRunner{
		system:     system,
		controller: controller,
		ticker:     ticker.New(system.config.hpaSyncTime),
		stopC:      make(chan struct{}),
		doneC:      make(chan struct{}),
	}
}

func (p *podControllerRunner) start() {
	p.ticker.Start()
	go p.loop()
}

func (p *podControllerRunner) stop() {
	close(p.stopC)
	<-p.doneC
}

func (p *podControllerRunner) loop() {
	defer close(p.doneC)
	defer p.ticker.Stop()
	for {
		select {
		case <-p.ticker.Ticks:
			p.sync()
		case <-p.stopC:
			return
		}
	}
}

func (p *podControllerRunner) sync() {
	defer func() {
		if r := recover(); r != nil {
			p.system.failsafe.notify(fmt.Errorf("%v", r), FailsafeReplication, NoID)
		}
	}()
	if err := p.controller.Sync(p.system.hookContext(), p.system.Metric()); err != nil {
		p.system.failsafe.notify(err, FailsafeReplication, NoID)
	}
}
