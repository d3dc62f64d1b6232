// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Chain is an ordered list of units with unique, case-insensitive names.
//
// Writers publish a fresh slice on every change; Process reads one
// snapshot per call, so it never sees a list mid-mutation and never locks.
type Chain struct {
	mu    sync.Mutex // serializes writers
	units atomic.Pointer[[]Unit]
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	c := &Chain{}
	empty := []Unit{}
	c.units.Store(&empty)
	return c
}

func (c *Chain) snapshot() []Unit {
	return *c.units.Load()
}

// Units returns the current snapshot. Callers must not modify it.
func (c *Chain) Units() []Unit {
	return c.snapshot()
}

func (c *Chain) Len() int { return len(c.snapshot()) }

func indexOf(units []Unit, name string) int {
	key := normalizeName(name)
	return slices.IndexFunc(units, func(u Unit) bool {
		return normalizeName(u.Name()) == key
	})
}

// Find returns the unit called name, or nil.
func (c *Chain) Find(name string) Unit {
	units := c.snapshot()
	if i := indexOf(units, name); i >= 0 {
		return units[i]
	}
	return nil
}

// Add appends u. It reports false, leaving the chain unchanged, when a
// unit with the same name is already present.
func (c *Chain) Add(u Unit) bool {
	if u == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.snapshot()
	if indexOf(cur, u.Name()) >= 0 {
		return false
	}

	next := make([]Unit, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, u)
	c.units.Store(&next)

	return true
}

// Remove drops the unit called name and reports whether one was removed.
func (c *Chain) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.snapshot()
	i := indexOf(cur, name)
	if i < 0 {
		return false
	}

	next := make([]Unit, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	next = append(next, cur[i+1:]...)
	c.units.Store(&next)

	return true
}

// Process applies every enabled unit in order.
func (c *Chain) Process(buf []float32, offset, count int) {
	for _, u := range c.snapshot() {
		if u.Enabled() {
			u.Process(buf, offset, count)
		}
	}
}
