// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the values a job computes with: tagged values,
// the variables that hold them, objects, arrays and functions, the per-job
// heap that recycles them, and the operator table that combines them.
package value // import "github.com/melon-lang/mel/value"

import (
	"strconv"
	"strings"
)

// Kind is the type tag of a Value.
type Kind int

const (
	NilKind Kind = iota
	IntKind
	BoolKind
	RealKind
	StringKind
	ObjectKind
	FuncKind
	ArrayKind
	CallKind
	numKind
)

var kindNames = [...]string{
	NilKind:    "nil",
	IntKind:    "int",
	BoolKind:   "bool",
	RealKind:   "real",
	StringKind: "string",
	ObjectKind: "object",
	FuncKind:   "function",
	ArrayKind:  "array",
	CallKind:   "call",
}

func (k Kind) String() string {
	if k < 0 || k >= numKind {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a reference-counted tagged union. Values are allocated from a
// job's Heap and must be released to it.
type Value struct {
	kind Kind
	i    int64
	b    bool
	r    float64
	s    string
	obj  *Object
	arr  *Array
	fn   *Func
	call *Call

	ref       int
	notModify bool
	udata     any
}

func (v *Value) Kind() Kind      { return v.kind }
func (v *Value) Int() int64      { return v.i }
func (v *Value) Bool() bool      { return v.b }
func (v *Value) Real() float64   { return v.r }
func (v *Value) Str() string     { return v.s }
func (v *Value) Object() *Object { return v.obj }
func (v *Value) Array() *Array   { return v.arr }
func (v *Value) Func() *Func     { return v.fn }
func (v *Value) Call() *Call     { return v.call }
func (v *Value) Refs() int       { return v.ref }
func (v *Value) Constant() bool  { return v.notModify }
func (v *Value) UserData() any   { return v.udata }

// SetUserData attaches host data to v.
func (v *Value) SetUserData(d any) {
	v.udata = d
}

// Retain adds a reference to v and returns it.
func (v *Value) Retain() *Value {
	v.ref++
	return v
}

// Truth reports whether v counts as true in a condition.
// Nil, zero, the empty string and false are false.
func (v *Value) Truth() bool {
	switch v.kind {
	case NilKind:
		return false
	case IntKind:
		return v.i != 0
	case BoolKind:
		return v.b
	case RealKind:
		return v.r != 0
	case StringKind:
		return v.s != ""
	}
	return true
}

// ToInt converts v to an integer. Reals truncate; strings that do not
// parse convert to zero.
func (v *Value) ToInt() int64 {
	switch v.kind {
	case IntKind:
		return v.i
	case BoolKind:
		if v.b {
			return 1
		}
	case RealKind:
		return int64(v.r)
	case StringKind:
		s := strings.TrimSpace(v.s)
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i
		}
		if r, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(r)
		}
	}
	return 0
}

// ToReal converts v to a real. Strings that do not parse convert to zero.
func (v *Value) ToReal() float64 {
	switch v.kind {
	case IntKind:
		return float64(v.i)
	case BoolKind:
		if v.b {
			return 1
		}
	case RealKind:
		return v.r
	case StringKind:
		if r, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return r
		}
	}
	return 0
}

// String returns the printed form of v.
func (v *Value) String() string {
	var b strings.Builder
	format(&b, v, make(map[any]bool))
	return b.String()
}

func format(b *strings.Builder, v *Value, seen map[any]bool) {
	switch v.kind {
	case NilKind:
		b.WriteString("nil")
	case IntKind:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case BoolKind:
		b.WriteString(strconv.FormatBool(v.b))
	case RealKind:
		b.WriteString(strconv.FormatFloat(v.r, 'f', 6, 64))
	case StringKind:
		b.WriteString(v.s)
	case FuncKind:
		b.WriteString("function")
		if v.fn.Name != "" {
			b.WriteString(" " + v.fn.Name)
		}
	case CallKind:
		b.WriteString("call " + v.call.Name)
	case ObjectKind:
		if seen[v.obj] {
			b.WriteString("...")
			return
		}
		seen[v.obj] = true
		defer delete(seen, v.obj)
		b.WriteString(v.obj.SetName())
		b.WriteString("{")
		i := 0
		for name, m := range v.obj.members.All() {
			if m.val.kind == FuncKind {
				continue
			}
			if i > 0 {
				b.WriteString(", ")
			}
			i++
			b.WriteString(name + ": ")
			formatElem(b, m.val, seen)
		}
		b.WriteString("}")
	case ArrayKind:
		if seen[v.arr] {
			b.WriteString("...")
			return
		}
		seen[v.arr] = true
		defer delete(seen, v.arr)
		b.WriteString("[")
		for i, e := range v.arr.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			if e.key != nil {
				formatElem(b, e.key, seen)
				b.WriteString(": ")
			}
			formatElem(b, e.val.val, seen)
		}
		b.WriteString("]")
	}
}

// formatElem quotes strings inside composites.
func formatElem(b *strings.Builder, v *Value, seen map[any]bool) {
	if v.kind == StringKind {
		b.WriteString(strconv.Quote(v.s))
		return
	}
	format(b, v, seen)
}
