// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import "golang.org/x/tools/container/intsets"

// none is the null slot index.
const none = -1

// arena holds the items of one kind a job allocates, addressed by slot
// index. Released slots go into a free set and the lowest free slot is
// reused first. Items are kept behind pointers so they stay put while
// the arena grows.
type arena[T any] struct {
	items []*T
	free  intsets.Sparse
	limit int // free slots kept at the end before the tail is trimmed
}

func newArena[T any](limit int) *arena[T] {
	return &arena[T]{limit: limit}
}

// alloc returns the index of a zeroed slot.
func (a *arena[T]) alloc() int {
	var i int
	if a.free.TakeMin(&i) {
		return i
	}
	a.items = append(a.items, new(T))
	return len(a.items) - 1
}

func (a *arena[T]) at(i int) *T {
	return a.items[i]
}

// release zeroes slot i and makes it available again.
func (a *arena[T]) release(i int) {
	var zero T
	*a.items[i] = zero
	a.free.Insert(i)
	for n := len(a.items) - 1; a.limit > 0 && a.free.Len() > a.limit && a.free.Has(n); n-- {
		a.free.Remove(n)
		a.items[n] = nil
		a.items = a.items[:n]
	}
}

// live returns the number of slots in use.
func (a *arena[T]) live() int {
	return len(a.items) - a.free.Len()
}
