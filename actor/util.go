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
)

// handlerList is a small concurrent fan-out list for observer callbacks.
type handlerList[T any] struct {
	mu       sync.RWMutex
	handlers []func(T)
}

func newHandlerList[T any]() *handlerList[T] {
	return &handlerList[T]{}
}

func (l *handlerList[T]) add(handler func(T)) {
	l.mu.Lock()
	l.handlers = append(l.handlers, handler)
	l.mu.Unlock()
}

// invoke runs every handler, containing panics so one observer cannot break
// the caller.
func (l *handlerList[T]) invoke(value T) {
	l.mu.RLock()
	handlers := make([]func(T), len(l.handlers))
	copy(handlers, l.handlers)
	l.mu.RUnlock()
	for _, handler := range handlers {
		func() {
			defer func() { _ = recover() }()
			handler(value)
		}()
	}
}
