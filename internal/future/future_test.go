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

package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureComplete(t *testing.T) {
	f := New[int]()
	assert.False(t, f.IsDone())

	go f.Complete(42)

	value, err := f.Await(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.True(t, f.IsDone())
}

func TestFutureFirstCompletionWins(t *testing.T) {
	f := New[string]()
	f.Complete("first")
	f.Complete("second")
	f.Fail(errors.New("late failure"))

	value, err := f.Await(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "first", value)
}

func TestFutureTimeout(t *testing.T) {
	f := New[int]()
	_, err := f.Await(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrFutureTimeout)
}

func TestFutureCancel(t *testing.T) {
	f := New[int]()
	f.Cancel()
	_, err := f.Await(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrFutureCanceled)
}

func TestFutureContextCanceled(t *testing.T) {
	f := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Await(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
