// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/melon-lang/mel/gc"

// Array holds elements in insertion order, indexed two ways: by integer
// index, and by key for elements added under a non-integer key.
type Array struct {
	elems   []*elem
	byIndex map[int64]*elem
	byKey   map[arrayKey]*elem
	next    int64 // index given to the next appended element
	ref     int
	freed   bool
	h       *Heap
}

type elem struct {
	index int64
	key   *Value // nil for elements addressed by index
	val   *Var
}

// arrayKey is the comparable form of a key value. Composite keys compare
// by identity.
type arrayKey struct {
	kind Kind
	b    bool
	r    float64
	s    string
	p    any
}

func keyOf(v *Value) arrayKey {
	k := arrayKey{kind: v.kind}
	switch v.kind {
	case BoolKind:
		k.b = v.b
	case RealKind:
		k.r = v.r
	case StringKind:
		k.s = v.s
	case ObjectKind:
		k.p = v.obj
	case ArrayKind:
		k.p = v.arr
	case FuncKind:
		k.p = v.fn
	case CallKind:
		panic(Errorf(TypeError, "call cannot be an array key"))
	}
	return k
}

func (h *Heap) newArray() *Array {
	a := &Array{
		byIndex: make(map[int64]*elem),
		byKey:   make(map[arrayKey]*elem),
		ref:     1,
		h:       h,
	}
	h.stats.Arrays++
	h.gc.Register(a)
	return a
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.elems)
}

// Elem returns the key (nil if none), index and var of the i'th element
// in insertion order.
func (a *Array) Elem(i int) (key *Value, index int64, v *Var) {
	e := a.elems[i]
	return e.key, e.index, e.val
}

// Append adds a copy of val at the next index.
func (a *Array) Append(val *Value) {
	a.add(a.next, nil).Set(a.h, val)
}

// Get returns the element addressed by key. Integer keys address by
// index; any other key addresses by key. If create is set a missing
// element is added with a nil value; otherwise Get returns nil.
func (a *Array) Get(key *Value, create bool) *Var {
	if key.kind == IntKind {
		if e, ok := a.byIndex[key.i]; ok {
			return e.val
		}
		if !create {
			return nil
		}
		return a.add(key.i, nil)
	}
	k := keyOf(key)
	if e, ok := a.byKey[k]; ok {
		return e.val
	}
	if !create {
		return nil
	}
	return a.add(a.next, a.h.Dup(key))
}

// add inserts a nil element; it takes over the reference to key.
func (a *Array) add(index int64, key *Value) *Var {
	e := &elem{
		index: index,
		key:   key,
		val:   a.h.NewVar("", a.h.NewNil()),
	}
	a.elems = append(a.elems, e)
	a.byIndex[index] = e
	if key != nil {
		a.byKey[keyOf(key)] = e
	}
	if index >= a.next {
		a.next = index + 1
	}
	return e.val
}

func (a *Array) release() {
	a.ref--
	if a.ref > 0 || a.freed {
		return
	}
	a.h.gc.Unregister(a)
	a.free()
}

func (a *Array) free() {
	if a.freed {
		return
	}
	a.freed = true
	a.h.stats.Arrays--
	elems := a.elems
	a.elems = nil
	a.byIndex = make(map[int64]*elem)
	a.byKey = make(map[arrayKey]*elem)
	for _, e := range elems {
		a.h.ReleaseValue(e.key)
		a.h.ReleaseVar(e.val)
	}
}

// Walk implements gc.Item.
func (a *Array) Walk(visit func(gc.Item)) {
	for _, e := range a.elems {
		if e.key != nil {
			e.key.walk(visit)
		}
		e.val.val.walk(visit)
	}
}

// Free implements gc.Item.
func (a *Array) Free() {
	a.free()
}
