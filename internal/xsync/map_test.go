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

package xsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBasics(t *testing.T) {
	m := NewMap[string, int]()
	assert.Equal(t, 0, m.Len())

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 3) // overwrite does not change the size
	assert.Equal(t, 2, m.Len())

	value, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, value)

	_, ok = m.Get("missing")
	assert.False(t, ok)

	m.Delete("a")
	assert.Equal(t, 1, m.Len())
	m.Delete("a") // double delete is a no-op
	assert.Equal(t, 1, m.Len())
}

func TestMapRangeAndReset(t *testing.T) {
	m := NewMap[int, string]()
	for i := 0; i < 10; i++ {
		m.Set(i, "v")
	}

	var visited int
	m.Range(func(int, string) bool {
		visited++
		return true
	})
	assert.Equal(t, 10, visited)

	m.Reset()
	assert.Equal(t, 0, m.Len())
}
