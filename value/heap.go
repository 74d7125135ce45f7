// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import (
	"github.com/melon-lang/mel/config"
	"github.com/melon-lang/mel/gc"
)

// HeapStats counts what a heap has live.
type HeapStats struct {
	Vars        int
	Values      int
	Objects     int
	Arrays      int
	Sets        int
	Collections int // collector runs
	Collected   int // composites freed by the collector
}

// Heap is a job's allocator scope. It hands out vars and values,
// recycling released ones through bounded free lists, keeps live counts,
// and owns the collector that composites register with.
type Heap struct {
	conf   *config.Config
	vars   []*Var
	values []*Value
	stats  HeapStats
	gc     *gc.Collector
}

// NewHeap returns an empty heap governed by conf.
func NewHeap(conf *config.Config) *Heap {
	return &Heap{
		conf: conf,
		gc:   gc.New(),
	}
}

// Stats returns the heap's counters.
func (h *Heap) Stats() HeapStats {
	s := h.stats
	s.Collections = h.gc.Runs()
	s.Collected = h.gc.Freed()
	return s
}

// Collector returns the heap's cycle collector.
func (h *Heap) Collector() *gc.Collector {
	return h.gc
}

// NeedCollect reports whether enough composites have been registered
// since the last collection to warrant another.
func (h *Heap) NeedCollect() bool {
	return h.gc.Pending() >= h.conf.GCThreshold()
}

// Collect frees every composite not reachable from the given vars and
// values. It returns the number freed.
func (h *Heap) Collect(vars []*Var, vals []*Value) int {
	var roots []gc.Item
	add := func(it gc.Item) { roots = append(roots, it) }
	for _, v := range vars {
		if v != nil {
			v.val.walk(add)
		}
	}
	for _, v := range vals {
		if v != nil {
			v.walk(add)
		}
	}
	return h.gc.Collect(roots)
}

func (h *Heap) newValue(kind Kind) *Value {
	if max := h.conf.MaxValues(); max > 0 && h.stats.Values >= max {
		panic(Errorf(OutOfMemory, "more than %d live values", max))
	}
	var v *Value
	if n := len(h.values); n > 0 {
		v = h.values[n-1]
		h.values = h.values[:n-1]
	} else {
		v = new(Value)
	}
	v.kind = kind
	v.ref = 1
	h.stats.Values++
	return v
}

func (h *Heap) NewNil() *Value {
	return h.newValue(NilKind)
}

func (h *Heap) NewInt(i int64) *Value {
	v := h.newValue(IntKind)
	v.i = i
	return v
}

func (h *Heap) NewBool(b bool) *Value {
	v := h.newValue(BoolKind)
	v.b = b
	return v
}

func (h *Heap) NewReal(r float64) *Value {
	v := h.newValue(RealKind)
	v.r = r
	return v
}

func (h *Heap) NewString(s string) *Value {
	v := h.newValue(StringKind)
	v.s = s
	return v
}

func (h *Heap) NewFunc(f *Func) *Value {
	v := h.newValue(FuncKind)
	v.fn = f
	return v
}

// NewObject returns a new object instantiated from set, which may be nil
// for an object with no template.
func (h *Heap) NewObject(set *Set) *Value {
	v := h.newValue(ObjectKind)
	v.obj = h.newObject(set)
	return v
}

// NewArray returns an empty array.
func (h *Heap) NewArray() *Value {
	v := h.newValue(ArrayKind)
	v.arr = h.newArray()
	return v
}

// NewCall returns a pending call of fn, which may be nil until the callee
// is resolved.
func (h *Heap) NewCall(name string, fn *Func) *Value {
	v := h.newValue(CallKind)
	v.call = &Call{Name: name, Fn: fn, h: h}
	return v
}

// MarkConstant protects v from modification and returns it.
func (v *Value) MarkConstant() *Value {
	v.notModify = true
	return v
}

// Dup returns a new value equal to v. Primitives are copied; composites
// are shared. The copy is never constant.
func (h *Heap) Dup(v *Value) *Value {
	d := h.newValue(v.kind)
	d.i, d.b, d.r, d.s, d.fn = v.i, v.b, v.r, v.s, v.fn
	d.udata = v.udata
	if v.obj != nil {
		d.obj = v.obj
		d.obj.ref++
	}
	if v.arr != nil {
		d.arr = v.arr
		d.arr.ref++
	}
	if v.call != nil {
		d.call = v.call.clone()
	}
	return d
}

// ReleaseValue drops a reference to v, freeing it when none remain.
func (h *Heap) ReleaseValue(v *Value) {
	if v == nil {
		return
	}
	v.ref--
	if v.ref > 0 {
		return
	}
	if v.ref < 0 {
		panic(Errorf(InternalError, "%s value released twice", v.kind))
	}
	obj, arr, call := v.obj, v.arr, v.call
	*v = Value{}
	h.stats.Values--
	if len(h.values) < h.conf.PoolValues() {
		h.values = append(h.values, v)
	}
	if obj != nil {
		obj.release()
	}
	if arr != nil {
		arr.release()
	}
	if call != nil {
		call.release()
	}
}

// NewVar returns a Normal var holding val. It takes over the caller's
// reference to val.
func (h *Heap) NewVar(name string, val *Value) *Var {
	v := h.allocVar()
	v.kind = Normal
	v.name = name
	v.val = val
	return v
}

// NewRef returns a Reference var sharing val, which it retains.
func (h *Heap) NewRef(name string, val *Value) *Var {
	v := h.allocVar()
	v.kind = Reference
	v.name = name
	v.val = val.Retain()
	return v
}

func (h *Heap) allocVar() *Var {
	var v *Var
	if n := len(h.vars); n > 0 {
		v = h.vars[n-1]
		h.vars = h.vars[:n-1]
	} else {
		v = new(Var)
	}
	v.ref = 1
	h.stats.Vars++
	return v
}

// ReleaseVar drops a reference to v, freeing it and releasing its value
// when none remain.
func (h *Heap) ReleaseVar(v *Var) {
	if v == nil {
		return
	}
	v.ref--
	if v.ref > 0 {
		return
	}
	if v.ref < 0 {
		panic(Errorf(InternalError, "var %q released twice", v.name))
	}
	val := v.val
	*v = Var{}
	h.stats.Vars--
	if len(h.vars) < h.conf.PoolVars() {
		h.vars = append(h.vars, v)
	}
	h.ReleaseValue(val)
}

// walk visits the composites v refers to directly.
func (v *Value) walk(visit func(gc.Item)) {
	switch {
	case v.obj != nil:
		visit(v.obj)
	case v.arr != nil:
		visit(v.arr)
	case v.call != nil:
		if v.call.This != nil {
			v.call.This.walk(visit)
		}
		for _, a := range v.call.Args {
			a.val.walk(visit)
		}
	}
}
