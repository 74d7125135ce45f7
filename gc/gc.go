// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gc implements the mark-and-sweep collector that finds cycles
// among composite values. Reference counting frees everything else;
// the collector only sees items registered with it.
package gc // import "github.com/melon-lang/mel/gc"

// Item is a composite registered with a Collector.
type Item interface {
	// Walk calls visit for every item directly reachable from the receiver.
	Walk(visit func(Item))
	// Free releases the item and what it owns. The collector calls it for
	// unreachable items; it must tolerate being called on an item that an
	// earlier Free in the same sweep has already released.
	Free()
}

// Collector tracks registered items. It is not safe for concurrent use;
// each job owns one.
type Collector struct {
	items map[Item]bool
	runs  int
	freed int
	since int // registrations since the last collection
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{items: make(map[Item]bool)}
}

// Register adds an item. Registering an item twice is a no-op.
func (c *Collector) Register(it Item) {
	if c.items[it] {
		return
	}
	c.items[it] = true
	c.since++
}

// Unregister removes an item, normally because reference counting freed it.
func (c *Collector) Unregister(it Item) {
	delete(c.items, it)
}

// Len returns the number of registered items.
func (c *Collector) Len() int {
	return len(c.items)
}

// Pending returns the number of registrations since the last collection.
func (c *Collector) Pending() int {
	return c.since
}

// Runs returns the number of collections performed.
func (c *Collector) Runs() int {
	return c.runs
}

// Freed returns the total number of items freed by collections.
func (c *Collector) Freed() int {
	return c.freed
}

// Collect marks every registered item reachable from roots and frees the
// rest. It returns the number of items freed.
func (c *Collector) Collect(roots []Item) int {
	c.runs++
	c.since = 0
	marked := make(map[Item]bool, len(c.items))
	work := make([]Item, 0, len(roots))
	push := func(it Item) {
		if it == nil || marked[it] {
			return
		}
		marked[it] = true
		work = append(work, it)
	}
	for _, r := range roots {
		push(r)
	}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		it.Walk(push)
	}
	var garbage []Item
	for it := range c.items {
		if !marked[it] {
			garbage = append(garbage, it)
		}
	}
	for _, it := range garbage {
		delete(c.items, it)
	}
	for _, it := range garbage {
		it.Free()
	}
	c.freed += len(garbage)
	return len(garbage)
}
