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

// Metric is a point-in-time snapshot of the system counters.
type Metric struct {
	actorsCount      int64
	deadlettersCount int64
	restartsCount    int64
	uptime           int64
	workerCounts     []uint64
}

// ActorsCount returns the number of live user actors.
func (m Metric) ActorsCount() int64 {
	return m.actorsCount
}

// DeadlettersCount returns the total number of dead letters.
func (m Metric) DeadlettersCount() int64 {
	return m.deadlettersCount
}

// RestartsCount returns the total number of supervision restarts.
func (m Metric) RestartsCount() int64 {
	return m.restartsCount
}

// Uptime returns the number of seconds since the system started.
func (m Metric) Uptime() int64 {
	return m.uptime
}

// WorkerCounts returns the processed message counter of every worker.
func (m Metric) WorkerCounts() []uint64 {
	out := make([]uint64, len(m.workerCounts))
	copy(out, m.workerCounts)
	return out
}
