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

package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMPSCFIFO(t *testing.T) {
	q := NewMPSC[int]()
	require.True(t, q.IsEmpty())

	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	require.False(t, q.IsEmpty())
	require.EqualValues(t, 100, q.Len())

	for i := 0; i < 100; i++ {
		value, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, value)
	}

	_, ok := q.Pop()
	assert.False(t, ok)
	assert.True(t, q.IsEmpty())
}

func TestMPSCConcurrentProducers(t *testing.T) {
	q := NewMPSC[int]()
	const producers = 8
	const perProducer = 1000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(p*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[int]bool)
	lastPerProducer := make(map[int]int)
	for {
		value, ok := q.Pop()
		if !ok {
			break
		}
		require.False(t, seen[value])
		seen[value] = true

		// per-producer order is preserved
		producer := value / perProducer
		if last, ok := lastPerProducer[producer]; ok {
			require.Greater(t, value, last)
		}
		lastPerProducer[producer] = value
	}
	assert.Len(t, seen, producers*perProducer)
}

func TestMPSCPopEmpty(t *testing.T) {
	q := NewMPSC[string]()
	value, ok := q.Pop()
	assert.False(t, ok)
	assert.Empty(t, value)
}
