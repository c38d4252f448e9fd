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
	"go.uber.org/atomic"
)

// GroupKind selects the worker affinity of a group's members.
type GroupKind int

const (
	// DistributedGroup spreads members across workers round-robin.
	DistributedGroup GroupKind = iota
	// BalancedGroup co-locates all members on a single worker.
	BalancedGroup
)

// Group is an affinity hint passed at spawn time. Members registered with
// the same group share its placement policy.
type Group struct {
	id   ID
	kind GroupKind
	next *atomic.Uint32
	home *atomic.Int32
}

// NewDistributedGroup creates a group whose members spread across workers.
func NewDistributedGroup() *Group {
	return newGroup(DistributedGroup)
}

// NewBalancedGroup creates a group whose members co-locate on one worker.
func NewBalancedGroup() *Group {
	return newGroup(BalancedGroup)
}

func newGroup(kind GroupKind) *Group {
	return &Group{
		id:   NewID(),
		kind: kind,
		next: atomic.NewUint32(0),
		home: atomic.NewInt32(-1),
	}
}

// ID returns the group identity.
func (g *Group) ID() ID {
	return g.id
}

// Kind returns the group placement policy.
func (g *Group) Kind() GroupKind {
	return g.kind
}
