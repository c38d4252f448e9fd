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

// Package xsync provides small typed wrappers around sync primitives.
package xsync

import (
	"sync"

	"go.uber.org/atomic"
)

// Map is a typed concurrent map with lock-free reads.
type Map[K comparable, V any] struct {
	inner sync.Map
	size  atomic.Int64
}

// NewMap creates an instance of Map
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{}
}

// Get retrieves the value bound to the given key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	value, ok := m.inner.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return value.(V), true
}

// Set binds the given value to the given key.
func (m *Map[K, V]) Set(key K, value V) {
	if _, loaded := m.inner.Swap(key, value); !loaded {
		m.size.Inc()
	}
}

// GetOrSet returns the existing value bound to the key, binding the given
// value when none exists. The second return reports whether the value was
// already present.
func (m *Map[K, V]) GetOrSet(key K, value V) (V, bool) {
	actual, loaded := m.inner.LoadOrStore(key, value)
	if !loaded {
		m.size.Inc()
	}
	return actual.(V), loaded
}

// Delete removes the binding for the given key.
func (m *Map[K, V]) Delete(key K) {
	if _, loaded := m.inner.LoadAndDelete(key); loaded {
		m.size.Dec()
	}
}

// Len returns the number of bindings.
func (m *Map[K, V]) Len() int {
	return int(m.size.Load())
}

// Range calls fn for each binding until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.inner.Range(func(k, v any) bool {
		return fn(k.(K), v.(V))
	})
}

// Reset removes all bindings.
func (m *Map[K, V]) Reset() {
	m.inner.Range(func(k, _ any) bool {
		m.inner.Delete(k)
		return true
	})
	m.size.Store(0)
}
