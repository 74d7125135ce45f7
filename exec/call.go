// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"github.com/melon-lang/mel/syntax"
	"github.com/melon-lang/mel/value"
)

// Locate steps for calls.
const (
	callStart = iota
	callRecv  // receiver evaluated
	callFunc  // callee expression evaluated
	callArgs  // next argument
	callArg   // argument evaluated
	callInvoke
	callDone
)

func (j *Job) locate(f *frame) {
	l := f.node.(*syntax.Locate)
	h := j.heap
	switch l.Op {
	case syntax.Index:
		switch f.step {
		case 0:
			f.step = 1
			j.push(l.Left)
		case 1:
			f.ret2 = j.operand(f)
			f.step = 2
			j.push(l.Index)
		case 2:
			j.dispatch(f, value.OpIndex)
		}
	case syntax.Property:
		if f.step == 0 {
			f.step = 1
			j.push(l.Left)
			return
		}
		f.ret2 = j.operand(f)
		f.ret = h.NewVar("", h.NewString(l.Name))
		j.dispatch(f, value.OpProperty)
	case syntax.Call:
		j.call(f, l)
	}
}

// call evaluates the callee and the arguments into a pending call and
// then runs it in a funccall frame. A callee named by an identifier is
// resolved when the call starts; a callee of the form x.name is a method
// of the object x.
func (j *Job) call(f *frame, l *syntax.Locate) {
	h := j.heap
	switch f.step {
	case callStart:
		if x, ok := l.Left.(*syntax.Factor); ok && x.Type == syntax.IdentFactor {
			fn := j.function(x.Str)
			f.ret2 = h.NewVar("", h.NewCall(x.Str, fn))
			f.elem = l.Args
			f.step = callArgs
			return
		}
		if p, ok := l.Left.(*syntax.Locate); ok && p.Op == syntax.Property {
			f.step = callRecv
			j.push(p.Left)
			return
		}
		f.step = callFunc
		j.push(l.Left)
	case callRecv:
		f.recv = j.operand(f)
		f.ret2 = h.NewVar("", h.NewCall(l.Left.(*syntax.Locate).Name, nil))
		f.elem = l.Args
		f.step = callArgs
	case callFunc:
		v := j.operand(f)
		defer h.ReleaseVar(v)
		if v.Value().Kind() != value.FuncKind {
			panic(value.Errorf(value.TypeError, "cannot call %s", v.Value().Kind()))
		}
		fn := v.Value().Func()
		f.ret2 = h.NewVar("", h.NewCall(fn.Name, fn))
		f.elem = l.Args
		f.step = callArgs
	case callArgs:
		if f.elem == nil {
			f.step = callInvoke
			return
		}
		f.step = callArg
		j.push(f.elem.Value)
	case callArg:
		f.ret2.Value().Call().AddArg(j.operand(f))
		f.elem = f.elem.Next
		f.step = callArgs
	case callInvoke:
		if f.recv != nil {
			recv, call := f.recv, f.ret2
			f.recv, f.ret2 = nil, nil
			defer h.ReleaseVar(recv)
			defer h.ReleaseVar(call)
			f.ret2 = value.Dispatch(j, value.OpProperty, recv, call)
		}
		call := f.ret2
		f.ret2 = nil
		f.step = callDone
		cf := j.pushKind(funcCall)
		cf.ret2 = call
		cf.fn = call.Value().Call().Fn
		if cf.fn.Def != nil {
			cf.node = cf.fn.Def
		}
	case callDone:
		j.finish(j.operand(f))
	}
}

// function returns the function bound to name.
func (j *Job) function(name string) *value.Func {
	sym := j.resolve(name, false)
	if sym == nil {
		panic(value.Errorf(value.UndefinedSymbol, "undefined function %s", name))
	}
	if sym.set != nil || sym.v.Value().Kind() != value.FuncKind {
		panic(value.Errorf(value.TypeError, "%s is not a function", name))
	}
	return sym.v.Value().Func()
}

// funcCall runs a pending call. A native runs in one step unless it
// blocks the job, in which case the frame waits for the value delivered
// when the job wakes. An external function gets a new scope holding its
// arguments, and this for a method call.
func (j *Job) funcCall(f *frame) {
	h := j.heap
	call := f.ret2.Value().Call()
	fn := f.fn
	if f.step == 1 {
		j.finish(j.operand(f))
		return
	}
	f.step = 1
	if fn.Native != nil {
		args := make([]*value.Value, len(call.Args))
		for i, a := range call.Args {
			args[i] = a.Value()
		}
		res := fn.Native(j, args)
		if j.state == Done {
			// Killed from a host callback.
			h.ReleaseValue(res)
			return
		}
		if !j.runnable() {
			h.ReleaseValue(res)
			return
		}
		if res == nil {
			res = h.NewNil()
		}
		j.finish(h.NewVar("", res))
		return
	}
	def := fn.Def
	if len(call.Args) > len(def.Args) {
		panic(value.Errorf(value.TypeError, "too many arguments to %s: have %d, want %d", call.Name, len(call.Args), len(def.Args)))
	}
	f.scope = j.enterScope(funcScope, call.Name)
	for i, a := range def.Args {
		switch {
		case i >= len(call.Args):
			j.bind(a.Name, h.NewVar(a.Name, h.NewNil()), nil)
		case a.Ref:
			j.bind(a.Name, h.NewRef(a.Name, call.Args[i].Value()), nil)
		default:
			j.bind(a.Name, h.NewVar(a.Name, h.Dup(call.Args[i].Value())), nil)
		}
	}
	if call.This != nil {
		j.bind("this", h.NewVar("this", h.Dup(call.This)), nil)
	}
	if def.Body != nil {
		j.push(def.Body)
	}
}

type unwindMode int

const (
	unwindBreak unwindMode = iota
	unwindContinue
	unwindReturn
)

var unwindNames = [...]string{"break", "continue", "return"}

func (m unwindMode) String() string {
	return unwindNames[m]
}

func (m unwindMode) absorbedBy(k frameKind) bool {
	switch m {
	case unwindBreak:
		return k == frameKind(syntax.WhileKind) || k == frameKind(syntax.ForKind) || k == frameKind(syntax.SwitchKind)
	case unwindContinue:
		return k == frameKind(syntax.WhileKind) || k == frameKind(syntax.ForKind)
	}
	return k == funcCall
}

// unwind pops frames up to the nearest one that absorbs a break,
// continue or return, and resumes it. A return with no enclosing call
// ends the job with ret as its result. Break and continue do not cross
// function calls.
func (j *Job) unwind(mode unwindMode, ret *value.Var) {
	target := none
	for i := j.top; i != none; {
		f := j.frames.at(i)
		if mode.absorbedBy(f.kind) {
			target = i
			break
		}
		if f.kind == funcCall {
			break
		}
		i = f.parent
	}
	if target == none && mode != unwindReturn {
		panic(value.Errorf(value.SyntaxError, "%s outside loop", mode))
	}
	for j.top != target {
		if j.frames.at(j.top).parent == none && target == none {
			j.pop()
			j.complete(ret)
			return
		}
		j.pop()
	}
	f := j.frames.at(target)
	switch mode {
	case unwindBreak:
		j.finish(nil)
	case unwindContinue:
		j.drop(f)
		if f.kind == frameKind(syntax.WhileKind) {
			f.step = whileCond
		} else {
			f.step = forPost
		}
	case unwindReturn:
		j.finish(ret)
	}
}
