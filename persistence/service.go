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

package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/kestrelworks/kestrel/internal/future"
)

// ErrServiceStopped is returned when persisting through a stopped service.
var ErrServiceStopped = errors.New("persistence service is stopped")

// Ack resolves once a journal write has been acknowledged by the driver,
// carrying the assigned sequence number.
type Ack struct {
	fut *future.Future[uint64]
}

// Await blocks until the write is acknowledged, the deadline elapses or the
// context is canceled.
func (a *Ack) Await(ctx context.Context, deadline time.Duration) (uint64, error) {
	return a.fut.Await(ctx, deadline)
}

// IsDone reports whether the write has been acknowledged.
func (a *Ack) IsDone() bool {
	return a.fut.IsDone()
}

type persistRequest struct {
	actorID string
	payload []byte
	ack     *Ack
}

// Service shards journal writes over a fixed set of journal workers. Writes
// of the same actor always land on the same worker, so the per-actor journal
// order matches the persist order; distinct actors persist in parallel.
type Service struct {
	driver  Driver
	shards  []chan persistRequest
	wg      sync.WaitGroup
	stopped bool
	mu      sync.RWMutex
}

// NewService creates a service with the given number of journal workers.
func NewService(driver Driver, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	s := &Service{
		driver: driver,
		shards: make([]chan persistRequest, workers),
	}
	for i := range s.shards {
		s.shards[i] = make(chan persistRequest, 256)
	}
	return s
}

// Start opens the driver and launches the journal workers.
func (s *Service) Start(ctx context.Context) error {
	if err := s.driver.Open(ctx); err != nil {
		return err
	}
	for _, shard := range s.shards {
		s.wg.Add(1)
		go s.journalLoop(shard)
	}
	return nil
}

// Persist enqueues a journal write for the actor and returns its
// acknowledgement future.
func (s *Service) Persist(actorID string, payload []byte) (*Ack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		return nil, ErrServiceStopped
	}
	ack := &Ack{fut: future.New[uint64]()}
	shard := s.shards[xxh3.HashString(actorID)%uint64(len(s.shards))]
	shard <- persistRequest{actorID: actorID, payload: payload, ack: ack}
	return ack, nil
}

// Recover streams the actor's journal from the driver.
func (s *Service) Recover(ctx context.Context, actorID string) (<-chan Event, error) {
	return s.driver.Recover(ctx, actorID)
}

// Stop drains the journal workers and closes the driver.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	for _, shard := range s.shards {
		close(shard)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return s.driver.Close(ctx)
}

func (s *Service) journalLoop(shard chan persistRequest) {
	defer s.wg.Done()
	for request := range shard {
		seq, err := s.driver.Persist(context.Background(), request.actorID, request.payload)
		if err != nil {
			request.ack.fut.Fail(err)
			continue
		}
		request.ack.fut.Complete(seq)
	}
}
