// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "github.com/melon-lang/mel/syntax"

// Native is a function implemented in Go. It borrows its arguments and
// returns a value it has allocated from c.Heap(); a nil result means nil.
type Native func(c Context, args []*Value) *Value

// Func describes a function: internal (Native) or external (Def, a
// subtree of the program). Funcs are immutable and shared by every value
// that refers to them.
type Func struct {
	Name   string
	Native Native
	Def    *syntax.FuncDef
}

// NArgs returns the number of declared arguments; -1 for natives.
func (f *Func) NArgs() int {
	if f.Def == nil {
		return -1
	}
	return len(f.Def.Args)
}

// Call is a pending invocation: the callee, the receiver for a method
// call, and the evaluated arguments. It is owned by exactly one value.
type Call struct {
	Name string
	Fn   *Func
	This *Value // receiver object, or nil
	Args []*Var
	h    *Heap
}

// AddArg appends an argument, taking ownership of the caller's reference.
func (c *Call) AddArg(v *Var) {
	c.Args = append(c.Args, v)
}

func (c *Call) clone() *Call {
	n := &Call{Name: c.Name, Fn: c.Fn, h: c.h}
	if c.This != nil {
		n.This = c.This.Retain()
	}
	for _, a := range c.Args {
		n.Args = append(n.Args, a.Retain())
	}
	return n
}

func (c *Call) release() {
	if c.This != nil {
		c.h.ReleaseValue(c.This)
		c.This = nil
	}
	for _, a := range c.Args {
		c.h.ReleaseVar(a)
	}
	c.Args = nil
}
