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

// stashBuffer is the owner-private message reservoir. It is only ever touched
// by the cell's own reception loop, which the dispatcher already serializes,
// so no synchronization is needed.
type stashBuffer struct {
	items []*Envelope
}

func newStashBuffer() *stashBuffer {
	return &stashBuffer{}
}

// push appends the envelope to the reservoir.
func (s *stashBuffer) push(env *Envelope) {
	s.items = append(s.items, env)
}

// popOne removes and returns the oldest stashed envelope, nil when empty.
func (s *stashBuffer) popOne() *Envelope {
	if len(s.items) == 0 {
		return nil
	}
	env := s.items[0]
	s.items[0] = nil
	s.items = s.items[1:]
	return env
}

// popAll removes and returns all stashed envelopes in stash order.
func (s *stashBuffer) popAll() []*Envelope {
	items := s.items
	s.items = nil
	return items
}

func (s *stashBuffer) len() int {
	return len(s.items)
}
