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
	"context"
	"runtime"
	"testing"

	"go.uber.org/atomic"

	"github.com/kestrelworks/kestrel/log"
)

func BenchmarkTell(b *testing.B) {
	sys := NewActorSystem("bench", WithLogger(log.DiscardLogger))
	if err := sys.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer func() {
		_ = sys.Shutdown(context.Background(), false)
	}()

	received := atomic.NewInt64(0)
	id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
		received.Inc()
	}))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sys.Tell(nil, 1, id)
	}
	for received.Load() < int64(b.N) {
		runtime.Gosched()
	}
}

// BenchmarkEchoRing drives a ring of busy actors echoing messages, many more
// actors than workers.
func BenchmarkEchoRing(b *testing.B) {
	sys := NewActorSystem("bench-ring", WithLogger(log.DiscardLogger))
	if err := sys.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer func() {
		_ = sys.Shutdown(context.Background(), false)
	}()

	const ringSize = 64
	processed := atomic.NewInt64(0)
	ids := make([]ID, ringSize)

	for i := 0; i < ringSize; i++ {
		i := i
		id, err := sys.AddActor(Func(func(ctx *ReceiveContext) {
			processed.Inc()
			hops := ctx.Message().Value().(int)
			if hops > 0 {
				ctx.Tell(hops-1, 1, ids[(i+1)%ringSize])
			}
		}))
		if err != nil {
			b.Fatal(err)
		}
		ids[i] = id
	}

	const hopsPerOp = 16
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sys.Tell(hopsPerOp, 1, ids[i%ringSize])
	}
	want := int64(b.N) * (hopsPerOp + 1)
	for processed.Load() < want {
		runtime.Gosched()
	}
}
