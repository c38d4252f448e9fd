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
	"bytes"
	"sync"

	"github.com/kestrelworks/kestrel/internal/xsync"
)

// registry maps identities to live cells and pseudo-cells, aliases to
// identity sets and paths to identities. Cell and path reads are lock-free;
// alias reads take a read lock and writes take short critical sections.
type registry struct {
	cells   *xsync.Map[ID, *Cell]
	pseudos *xsync.Map[ID, *Cell]
	paths   *xsync.Map[string, ID]

	aliasMu sync.RWMutex
	aliases map[string]map[ID]struct{}
}

func newRegistry() *registry {
	return &registry{
		cells:   xsync.NewMap[ID, *Cell](),
		pseudos: xsync.NewMap[ID, *Cell](),
		paths:   xsync.NewMap[string, ID](),
		aliases: make(map[string]map[ID]struct{}),
	}
}

// cell returns the live cell bound to the identity.
func (r *registry) cell(id ID) (*Cell, bool) {
	if id.IsNil() {
		return nil, false
	}
	return r.cells.Get(id)
}

// pseudoCell returns the pseudo-cell bound to the identity.
func (r *registry) pseudoCell(id ID) (*Cell, bool) {
	return r.pseudos.Get(id)
}

// anyCell resolves the identity against live cells first, then pseudo-cells.
func (r *registry) anyCell(id ID) (*Cell, bool) {
	if cell, ok := r.cell(id); ok {
		return cell, true
	}
	return r.pseudoCell(id)
}

// register publishes the cell to the lookup maps. The caller has already
// linked the cell into its parent's child set, preserving the invariant that
// a cell is visible only after the parent lists it.
func (r *registry) register(c *Cell) {
	r.paths.Set(c.path, c.id)
	r.cells.Set(c.id, c)
}

// registerPseudo publishes a pseudo-cell.
func (r *registry) registerPseudo(c *Cell) {
	r.pseudos.Set(c.id, c)
}

// unregister removes alias and path bindings before releasing the cell.
func (r *registry) unregister(c *Cell) {
	r.removeAliases(c.id)
	r.paths.Delete(c.path)
	r.cells.Delete(c.id)
}

// unregisterPseudo releases a pseudo-cell.
func (r *registry) unregisterPseudo(id ID) {
	r.pseudos.Delete(id)
}

// setAlias binds the alias to the identity. Aliases are many-to-many.
func (r *registry) setAlias(id ID, alias string) {
	r.aliasMu.Lock()
	defer r.aliasMu.Unlock()
	bindings, ok := r.aliases[alias]
	if !ok {
		bindings = make(map[ID]struct{})
		r.aliases[alias] = bindings
	}
	bindings[id] = struct{}{}
}

// unsetAlias removes one alias binding.
func (r *registry) unsetAlias(id ID, alias string) {
	r.aliasMu.Lock()
	defer r.aliasMu.Unlock()
	if bindings, ok := r.aliases[alias]; ok {
		delete(bindings, id)
		if len(bindings) == 0 {
			delete(r.aliases, alias)
		}
	}
}

// removeAliases drops every alias binding of the identity.
func (r *registry) removeAliases(id ID) {
	r.aliasMu.Lock()
	defer r.aliasMu.Unlock()
	for alias, bindings := range r.aliases {
		delete(bindings, id)
		if len(bindings) == 0 {
			delete(r.aliases, alias)
		}
	}
}

// lookupAlias resolves an alias to one bound identity. With multiple
// bindings the choice is arbitrary but deterministic for equal set contents:
// the smallest identity in byte order wins.
func (r *registry) lookupAlias(alias string) (ID, bool) {
	r.aliasMu.RLock()
	defer r.aliasMu.RUnlock()
	bindings, ok := r.aliases[alias]
	if !ok || len(bindings) == 0 {
		return NoID, false
	}
	var chosen ID
	first := true
	for id := range bindings {
		if first || bytes.Compare(id[:], chosen[:]) < 0 {
			chosen = id
			first = false
		}
	}
	return chosen, true
}

// lookupPath resolves a registry path to an identity.
func (r *registry) lookupPath(path string) (ID, bool) {
	return r.paths.Get(path)
}

// count returns the number of live cells.
func (r *registry) count() int {
	return r.cells.Len()
}
