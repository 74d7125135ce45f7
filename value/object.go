// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"iter"

	"github.com/melon-lang/mel/gc"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Set is a named template from which objects are instantiated. Its
// members are kept in declaration order.
type Set struct {
	Name    string
	members *sequencedmap.Map[string, *Var]
	ref     int
	h       *Heap
}

// NewSet returns an empty template with one reference.
func (h *Heap) NewSet(name string) *Set {
	h.stats.Sets++
	return &Set{
		Name:    name,
		members: sequencedmap.New[string, *Var](),
		ref:     1,
		h:       h,
	}
}

// AddMember adds or replaces a member template, taking over the caller's
// reference to val.
func (s *Set) AddMember(name string, val *Value) {
	if old, ok := s.members.Get(name); ok {
		s.h.ReleaseVar(old)
	}
	s.members.Set(name, s.h.NewVar(name, val))
}

// Len returns the number of members.
func (s *Set) Len() int {
	return s.members.Len()
}

// Retain adds a reference to s and returns it.
func (s *Set) Retain() *Set {
	s.ref++
	return s
}

// Release drops a reference to s, releasing its members when none remain.
func (s *Set) Release() {
	s.ref--
	if s.ref > 0 {
		return
	}
	s.h.stats.Sets--
	for _, m := range s.members.All() {
		s.h.ReleaseVar(m)
	}
	s.members = sequencedmap.New[string, *Var]()
}

// Object is an instance of a set: an ordered collection of named members.
// Members not declared by the set appear on first access.
type Object struct {
	set     *Set
	members *sequencedmap.Map[string, *Var]
	ref     int
	freed   bool
	h       *Heap
}

func (h *Heap) newObject(set *Set) *Object {
	o := &Object{
		members: sequencedmap.New[string, *Var](),
		ref:     1,
		h:       h,
	}
	if set != nil {
		o.set = set.Retain()
		for name, m := range set.members.All() {
			o.members.Set(name, h.NewVar(name, h.Dup(m.val)))
		}
	}
	h.stats.Objects++
	h.gc.Register(o)
	return o
}

// SetName returns the name of the object's template.
func (o *Object) SetName() string {
	if o.set == nil {
		return "Object"
	}
	return o.set.Name
}

// Len returns the number of members.
func (o *Object) Len() int {
	return o.members.Len()
}

// Members iterates over the members in order.
func (o *Object) Members() iter.Seq2[string, *Var] {
	return o.members.All()
}

// Member returns the named member, if present.
func (o *Object) Member(name string) (*Var, bool) {
	return o.members.Get(name)
}

// Vivify returns the named member, first adding it with a nil value if
// it does not exist.
func (o *Object) Vivify(name string) *Var {
	m, ok := o.members.Get(name)
	if !ok {
		m = o.h.NewVar(name, o.h.NewNil())
		o.members.Set(name, m)
	}
	return m
}

// SetMember adds or replaces a member with a copy of val.
func (o *Object) SetMember(name string, val *Value) {
	o.Vivify(name).Set(o.h, val)
}

func (o *Object) release() {
	o.ref--
	if o.ref > 0 || o.freed {
		return
	}
	o.h.gc.Unregister(o)
	o.free()
}

func (o *Object) free() {
	if o.freed {
		return
	}
	o.freed = true
	o.h.stats.Objects--
	members := o.members
	o.members = sequencedmap.New[string, *Var]()
	for _, m := range members.All() {
		o.h.ReleaseVar(m)
	}
	if o.set != nil {
		o.set.Release()
		o.set = nil
	}
}

// Walk implements gc.Item.
func (o *Object) Walk(visit func(gc.Item)) {
	for _, m := range o.members.All() {
		m.val.walk(visit)
	}
}

// Free implements gc.Item.
func (o *Object) Free() {
	o.free()
}
