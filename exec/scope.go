// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import "github.com/melon-lang/mel/value"

type scopeKind int

const (
	globalScope scopeKind = iota
	funcScope
)

// A scope is one lexical layer: the job's global scope, or the body of
// a function being called. It owns the symbols bound while it is the
// innermost scope.
type scope struct {
	kind  scopeKind
	name  string
	layer int
	syms  []int // owned symbols, in binding order
	frame int   // frame executing in this scope
	prev  int   // enclosing scope
}

// A symbol binds a name to a variable or to a set.
type symbol struct {
	name  string
	layer int
	scope int
	v     *value.Var
	set   *value.Set
	next  int // the binding this one shadows
}

// enterScope pushes a scope one layer deeper than the current one.
func (j *Job) enterScope(kind scopeKind, name string) int {
	i := j.scopes.alloc()
	s := j.scopes.at(i)
	s.kind = kind
	s.name = name
	s.prev = j.scope
	s.frame = j.top
	if j.scope != none {
		s.layer = j.scopes.at(j.scope).layer + 1
	}
	j.scope = i
	return i
}

// exitScope unbinds every symbol of the innermost scope and pops it.
func (j *Job) exitScope() {
	s := j.scopes.at(j.scope)
	h := j.heap
	for k := len(s.syms) - 1; k >= 0; k-- {
		i := s.syms[k]
		sym := j.symbols.at(i)
		if j.index[sym.name] != i {
			panic(value.Errorf(value.InternalError, "symbol %s unbound out of order", sym.name))
		}
		if sym.next == none {
			delete(j.index, sym.name)
		} else {
			j.index[sym.name] = sym.next
		}
		h.ReleaseVar(sym.v)
		if sym.set != nil {
			sym.set.Release()
		}
		j.symbols.release(i)
	}
	prev := s.prev
	j.scopes.release(j.scope)
	j.scope = prev
}

// resolve finds the innermost binding of name. With localOnly set,
// only the current scope is searched.
func (j *Job) resolve(name string, localOnly bool) *symbol {
	i, ok := j.index[name]
	if !ok {
		return nil
	}
	sym := j.symbols.at(i)
	if localOnly && sym.scope != j.scope {
		return nil
	}
	return sym
}

// bind binds name in the current scope to v or set, exactly one of which
// is non-nil; bind takes over the caller's reference. Rebinding a name in
// the same scope replaces the old binding.
func (j *Job) bind(name string, v *value.Var, set *value.Set) *symbol {
	if sym := j.resolve(name, true); sym != nil {
		j.heap.ReleaseVar(sym.v)
		if sym.set != nil {
			sym.set.Release()
		}
		sym.v, sym.set = v, set
		return sym
	}
	s := j.scopes.at(j.scope)
	i := j.symbols.alloc()
	sym := j.symbols.at(i)
	sym.name = name
	sym.layer = s.layer
	sym.scope = j.scope
	sym.v, sym.set = v, set
	sym.next = none
	if prev, ok := j.index[name]; ok {
		sym.next = prev
	}
	j.index[name] = i
	s.syms = append(s.syms, i)
	return sym
}

// variable returns the variable bound to name, declaring it nil in the
// current scope if name is unbound.
func (j *Job) variable(name string) *value.Var {
	sym := j.resolve(name, false)
	if sym == nil {
		h := j.heap
		sym = j.bind(name, h.NewVar(name, h.NewNil()), nil)
	}
	if sym.set != nil {
		panic(value.Errorf(value.TypeError, "set %s used as a value", name))
	}
	return sym.v
}
