// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"github.com/melon-lang/mel/syntax"
	"github.com/melon-lang/mel/value"
)

// frameKind is the production a frame evaluates: one of the syntax
// kinds, or a function call.
type frameKind int

const funcCall = frameKind(syntax.SwitchStmKind + 1)

func (k frameKind) String() string {
	if k == funcCall {
		return "funccall"
	}
	return syntax.Kind(k).String()
}

// A frame is one activation of a production. Its step says which part
// of the production runs next, so evaluation can stop after any step and
// resume later.
type frame struct {
	kind   frameKind
	node   syntax.Node
	step   int
	parent int
	line   int

	ret  *value.Var // result of the last child to finish
	ret2 *value.Var // held operand: left side, call under construction, switch value
	recv *value.Var // receiver of a method call

	arr   *value.Value      // array literal under construction
	elem  *syntax.ElemList  // argument cursor
	cases *syntax.SwitchStm // switch cursor
	dflt  *syntax.SwitchStm // default case
	fn    *value.Func       // callee of a funccall frame
	scope int               // scope owned by a funccall frame, or none
}

// takeRet returns the frame's result, leaving the slot empty.
func (f *frame) takeRet() *value.Var {
	v := f.ret
	f.ret = nil
	return v
}

// push starts evaluating n in a new frame above the current one.
func (j *Job) push(n syntax.Node) *frame {
	f := j.pushKind(frameKind(n.Kind()))
	f.node = n
	f.line = n.Line()
	return f
}

func (j *Job) pushKind(kind frameKind) *frame {
	if max := j.conf.MaxFrames(); j.frames.live() >= max {
		panic(value.Errorf(value.OutOfMemory, "stack overflow: more than %d frames", max))
	}
	i := j.frames.alloc()
	f := j.frames.at(i)
	f.kind = kind
	f.parent = j.top
	f.scope = none
	if j.top != none {
		f.line = j.frames.at(j.top).line
	}
	j.top = i
	return f
}

// pop discards the top frame and everything it holds.
func (j *Job) pop() {
	i := j.top
	f := j.frames.at(i)
	h := j.heap
	h.ReleaseVar(f.ret)
	h.ReleaseVar(f.ret2)
	h.ReleaseVar(f.recv)
	h.ReleaseValue(f.arr)
	if f.scope != none {
		for j.scope != f.scope {
			j.exitScope()
		}
		j.exitScope()
	}
	j.top = f.parent
	j.frames.release(i)
}

// finish completes the top frame with result v, which it takes over,
// and hands v to the parent frame. Completing the bottom frame ends the
// job with v as its result.
func (j *Job) finish(v *value.Var) {
	parent := j.frames.at(j.top).parent
	j.pop()
	if parent == none {
		j.complete(v)
		return
	}
	p := j.frames.at(parent)
	j.heap.ReleaseVar(p.ret)
	p.ret = v
}

// frameRoots appends the vars and values held by live frames.
func (j *Job) frameRoots(vars []*value.Var, vals []*value.Value) ([]*value.Var, []*value.Value) {
	for i := j.top; i != none; {
		f := j.frames.at(i)
		vars = append(vars, f.ret, f.ret2, f.recv)
		vals = append(vals, f.arr)
		i = f.parent
	}
	return vars, vals
}
