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

	"go.uber.org/atomic"

	"github.com/kestrelworks/kestrel/internal/eventstream"
	"github.com/kestrelworks/kestrel/log"
)

// DeadLettersTopic is the event-stream topic dead letters are published on.
const DeadLettersTopic = "deadletters"

// DeadLetter is the record published for every undeliverable user message.
type DeadLetter struct {
	// Message is the original message with all fields intact.
	Message *Message
	// At is the time the message reached the sink.
	At time.Time
}

// DeadLetterHandler consumes undeliverable messages. The default handler
// logs and drops.
type DeadLetterHandler func(*DeadLetter)

// deadLetterSink terminates the delivery path for messages whose destination
// has no registered cell. A message is never silently dropped: it is counted,
// published on the event stream and handed to the configured handlers.
type deadLetterSink struct {
	counter *atomic.Int64
	stream  eventstream.Stream
	handler DeadLetterHandler
	extra   *handlerList[*DeadLetter]
	logger  log.Logger
}

func newDeadLetterSink(stream eventstream.Stream, logger log.Logger, handler DeadLetterHandler) *deadLetterSink {
	sink := &deadLetterSink{
		counter: atomic.NewInt64(0),
		stream:  stream,
		extra:   newHandlerList[*DeadLetter](),
		logger:  logger,
	}
	if handler == nil {
		handler = sink.logAndDrop
	}
	sink.handler = handler
	return sink
}

// receive consumes an undeliverable envelope. Internal control signals die
// quietly; user messages are published and handed to the handler.
func (d *deadLetterSink) receive(env *Envelope) {
	if env.isSignal() || env.message == nil {
		return
	}
	d.counter.Inc()
	letter := &DeadLetter{Message: env.message, At: time.Now()}
	d.stream.Publish(DeadLettersTopic, letter)
	d.handler(letter)
	d.extra.invoke(letter)
}

// addHandler registers an additional dead-letter consumer.
func (d *deadLetterSink) addHandler(handler DeadLetterHandler) {
	d.extra.add(func(letter *DeadLetter) { handler(letter) })
}

func (d *deadLetterSink) logAndDrop(letter *DeadLetter) {
	d.logger.Debugf("dead letter: tag=%d source=%s dest=%s",
		letter.Message.Tag(), letter.Message.Source(), letter.Message.Dest())
}

func (d *deadLetterSink) count() int64 {
	return d.counter.Load()
}
