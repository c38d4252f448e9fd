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

	"github.com/kestrelworks/kestrel/log"
)

// Context is handed to lifecycle hooks (PreStart, PostStop, the restart
// hooks). It carries the runtime handles an actor needs while it has no
// message in flight, such as creating children or binding aliases during
// initialization.
type Context struct {
	ctx    context.Context
	system *ActorSystem
	cell   *Cell
}

// Context returns the underlying context.Context.
func (c *Context) Context() context.Context {
	return c.ctx
}

// ActorSystem returns the actor system handle.
func (c *Context) ActorSystem() *ActorSystem {
	return c.system
}

// Self returns this actor's identity.
func (c *Context) Self() ID {
	return c.cell.id
}

// ActorName returns this actor's name.
func (c *Context) ActorName() string {
	return c.cell.name
}

// Path returns this actor's registry path.
func (c *Context) Path() string {
	return c.cell.path
}

// Logger returns the system logger.
func (c *Context) Logger() log.Logger {
	return c.system.Logger()
}

// AddChild registers a child actor under this actor.
func (c *Context) AddChild(factory Factory, opts ...SpawnOption) (ID, error) {
	return c.system.spawn(c.cell, factory, opts...)
}

// SetAlias binds an alias to this actor.
func (c *Context) SetAlias(alias string) error {
	return c.system.SetAlias(c.cell.id, alias)
}
