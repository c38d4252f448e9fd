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

// Behavior is a reception function. The cell always invokes the top of its
// behavior stack; there is no dynamic dispatch beyond that call.
type Behavior func(ctx *ReceiveContext)

// behaviorStack holds the current reception function and the ones it shadowed.
// It is owner-private: only the cell's reception loop touches it.
type behaviorStack struct {
	items []Behavior
}

func newBehaviorStack(initial Behavior) *behaviorStack {
	return &behaviorStack{items: []Behavior{initial}}
}

// top returns the active reception function.
func (b *behaviorStack) top() Behavior {
	return b.items[len(b.items)-1]
}

// become swaps (replace) or pushes over the active reception function.
func (b *behaviorStack) become(behavior Behavior, replace bool) {
	if replace {
		b.items[len(b.items)-1] = behavior
		return
	}
	b.items = append(b.items, behavior)
}

// unbecome pops the active reception function, revealing the prior one. The
// original behavior at the bottom of the stack is never popped.
func (b *behaviorStack) unbecome() bool {
	if len(b.items) <= 1 {
		return false
	}
	b.items[len(b.items)-1] = nil
	b.items = b.items[:len(b.items)-1]
	return true
}

// unbecomeAll collapses the stack to the original reception function.
func (b *behaviorStack) unbecomeAll() {
	first := b.items[0]
	for i := range b.items {
		b.items[i] = nil
	}
	b.items = append(b.items[:0], first)
}

// reset replaces the whole stack with a fresh original behavior. Used on
// restart.
func (b *behaviorStack) reset(initial Behavior) {
	for i := range b.items {
		b.items[i] = nil
	}
	b.items = append(b.items[:0], initial)
}

func (b *behaviorStack) len() int {
	return len(b.items)
}
