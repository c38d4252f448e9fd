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

package eventstream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/kestrelworks/kestrel/internal/queue"
)

// Subscriber defines the subscriber of an event stream.
type Subscriber interface {
	// ID returns the subscriber unique identifier.
	ID() string
	// Active reports whether the subscriber still receives messages.
	Active() bool
	// Topics returns the topics the subscriber is subscribed to.
	Topics() []string
	// Iterator consumes and returns the messages delivered so far.
	Iterator() []any
	// Shutdown deactivates the subscriber.
	Shutdown()

	signal(msg any)
	subscribe(topic string)
	unsubscribe(topic string)
}

type subscriber struct {
	id       string
	active   *atomic.Bool
	messages *queue.MPSC[any]

	mu     sync.Mutex
	topics map[string]struct{}
}

// enforce a compilation error
var _ Subscriber = (*subscriber)(nil)

func newSubscriber() *subscriber {
	return &subscriber{
		id:       uuid.NewString(),
		active:   atomic.NewBool(true),
		messages: queue.NewMPSC[any](),
		topics:   make(map[string]struct{}),
	}
}

func (s *subscriber) ID() string {
	return s.id
}

func (s *subscriber) Active() bool {
	return s.active.Load()
}

func (s *subscriber) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	topics := make([]string, 0, len(s.topics))
	for topic := range s.topics {
		topics = append(topics, topic)
	}
	return topics
}

func (s *subscriber) Iterator() []any {
	var out []any
	for {
		msg, ok := s.messages.Pop()
		if !ok {
			return out
		}
		out = append(out, msg)
	}
}

func (s *subscriber) Shutdown() {
	s.active.Store(false)
}

func (s *subscriber) signal(msg any) {
	if s.active.Load() {
		s.messages.Push(msg)
	}
}

func (s *subscriber) subscribe(topic string) {
	s.mu.Lock()
	s.topics[topic] = struct{}{}
	s.mu.Unlock()
}

func (s *subscriber) unsubscribe(topic string) {
	s.mu.Lock()
	delete(s.topics, topic)
	s.mu.Unlock()
}
