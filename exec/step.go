// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exec

import (
	"github.com/melon-lang/mel/syntax"
	"github.com/melon-lang/mel/value"
)

// The steppers. Each call executes one step of the top frame: it either
// pushes a child frame and advances f.step, or consumes the child's
// result and finishes. None of them recurses.

var binaryOps = map[syntax.Op]value.Op{
	syntax.Assign:    value.OpAssign,
	syntax.AddAssign: value.OpPlusEq,
	syntax.SubAssign: value.OpSubEq,
	syntax.LshAssign: value.OpLmovEq,
	syntax.RshAssign: value.OpRmovEq,
	syntax.MulAssign: value.OpMulEq,
	syntax.DivAssign: value.OpDivEq,
	syntax.OrAssign:  value.OpOrEq,
	syntax.AndAssign: value.OpAndEq,
	syntax.XorAssign: value.OpXorEq,
	syntax.ModAssign: value.OpModEq,
	syntax.Or:        value.OpCor,
	syntax.And:       value.OpCand,
	syntax.Xor:       value.OpCxor,
	syntax.Eq:        value.OpEq,
	syntax.Ne:        value.OpNe,
	syntax.Lt:        value.OpLt,
	syntax.Le:        value.OpLe,
	syntax.Gt:        value.OpGt,
	syntax.Ge:        value.OpGe,
	syntax.Lsh:       value.OpLmov,
	syntax.Rsh:       value.OpRmov,
	syntax.Add:       value.OpPlus,
	syntax.Sub:       value.OpSub,
	syntax.Mul:       value.OpMul,
	syntax.Div:       value.OpDiv,
	syntax.Mod:       value.OpMod,
}

var prefixOps = map[syntax.Op]value.Op{
	syntax.Neg:     value.OpNegative,
	syntax.Reverse: value.OpReverse,
	syntax.Not:     value.OpNot,
	syntax.Inc:     value.OpPinc,
	syntax.Dec:     value.OpPdec,
}

var suffixOps = map[syntax.Op]value.Op{
	syntax.Inc: value.OpSinc,
	syntax.Dec: value.OpSdec,
}

// step executes one step of the top frame.
func (j *Job) step() {
	f := j.frames.at(j.top)
	j.line = f.line
	if j.conf.Debug("frames") {
		j.engine.log.Debug("step", "job", j.name, "frame", f.kind, "step", f.step, "line", f.line)
	}
	switch f.kind {
	case frameKind(syntax.StmKind):
		j.stm(f)
	case frameKind(syntax.BlockKind):
		j.block(f)
	case frameKind(syntax.FuncDefKind):
		j.funcDef(f)
	case frameKind(syntax.SetKind):
		j.setDef(f)
	case frameKind(syntax.WhileKind):
		j.while(f)
	case frameKind(syntax.ForKind):
		j.forLoop(f)
	case frameKind(syntax.IfKind):
		j.ifStm(f)
	case frameKind(syntax.SwitchKind):
		j.switchStm(f)
	case frameKind(syntax.ExpKind):
		j.exp(f)
	case frameKind(syntax.AssignKind):
		j.assign(f)
	case frameKind(syntax.LogicLowKind),
		frameKind(syntax.LogicHighKind),
		frameKind(syntax.RelativeLowKind),
		frameKind(syntax.RelativeHighKind),
		frameKind(syntax.MoveKind),
		frameKind(syntax.AddSubKind),
		frameKind(syntax.MulDivKind):
		j.binary(f)
	case frameKind(syntax.SuffixKind):
		j.suffix(f)
	case frameKind(syntax.SpecKind):
		j.spec(f)
	case frameKind(syntax.LocateKind):
		j.locate(f)
	case frameKind(syntax.FactorKind):
		j.factor(f)
	case frameKind(syntax.ElemListKind):
		j.elemList(f)
	case funcCall:
		j.funcCall(f)
	default:
		panic(value.Errorf(value.InternalError, "no stepper for %s frame", f.kind))
	}
}

func (j *Job) stm(f *frame) {
	s := f.node.(*syntax.Stm)
	if f.step == 0 {
		f.step = 1
		j.push(s.Body)
		return
	}
	if s.Next == nil {
		j.finish(f.takeRet())
		return
	}
	j.drop(f)
	f.node = s.Next
	f.line = s.Next.Line()
	f.step = 0
}

func (j *Job) block(f *frame) {
	b := f.node.(*syntax.Block)
	switch b.Op {
	case syntax.BlockEmpty:
		j.finish(nil)
	case syntax.BlockExp:
		if f.step == 0 {
			f.step = 1
			j.push(b.Exp)
			return
		}
		j.finish(f.takeRet())
	case syntax.BlockStm:
		if b.Stm == nil {
			j.finish(nil)
			return
		}
		if f.step == 0 {
			f.step = 1
			j.push(b.Stm)
			return
		}
		j.finish(f.takeRet())
	case syntax.BlockBreak:
		j.unwind(unwindBreak, nil)
	case syntax.BlockContinue:
		j.unwind(unwindContinue, nil)
	case syntax.BlockReturn:
		if b.Exp == nil {
			j.unwind(unwindReturn, nil)
			return
		}
		if f.step == 0 {
			f.step = 1
			j.push(b.Exp)
			return
		}
		j.unwind(unwindReturn, f.takeRet())
	}
}

// newFunc returns a function value for def.
func (j *Job) newFunc(def *syntax.FuncDef) *value.Value {
	return j.heap.NewFunc(&value.Func{Name: def.Name, Def: def})
}

func (j *Job) funcDef(f *frame) {
	def := f.node.(*syntax.FuncDef)
	j.bind(def.Name, j.heap.NewVar(def.Name, j.newFunc(def)), nil)
	j.finish(nil)
}

func (j *Job) setDef(f *frame) {
	def := f.node.(*syntax.SetDef)
	h := j.heap
	set := h.NewSet(def.Name)
	for m := def.Members; m != nil; m = m.Next {
		if m.Func != nil {
			set.AddMember(m.Func.Name, j.newFunc(m.Func))
		} else {
			set.AddMember(m.Var, h.NewNil())
		}
	}
	j.bind(def.Name, nil, set)
	j.finish(nil)
}

// truth consumes the frame's result and reports whether it is true.
func (j *Job) truth(f *frame) bool {
	v := f.takeRet()
	if v == nil {
		return false
	}
	defer j.heap.ReleaseVar(v)
	return v.Value().Truth()
}

// drop releases the frame's result.
func (j *Job) drop(f *frame) {
	j.heap.ReleaseVar(f.takeRet())
}

// Loop steps. Continue resumes a while loop at whileCond and a for
// loop at forPost.
const (
	whileCond = iota
	whileTest
	whileBody
)

func (j *Job) while(f *frame) {
	w := f.node.(*syntax.While)
	switch f.step {
	case whileCond:
		f.step = whileTest
		j.push(w.Cond)
	case whileTest:
		if !j.truth(f) {
			j.finish(nil)
			return
		}
		f.step = whileBody
		j.push(w.Body)
	case whileBody:
		j.drop(f)
		f.step = whileCond
	}
}

const (
	forInit = iota
	forCond
	forTest
	forBody
	forPost
	forNext
)

func (j *Job) forLoop(f *frame) {
	l := f.node.(*syntax.For)
	switch f.step {
	case forInit:
		f.step = forCond
		if l.Init != nil {
			j.push(l.Init)
		}
	case forCond:
		j.drop(f)
		if l.Cond == nil {
			f.step = forBody
			return
		}
		f.step = forTest
		j.push(l.Cond)
	case forTest:
		if !j.truth(f) {
			j.finish(nil)
			return
		}
		f.step = forBody
	case forBody:
		f.step = forPost
		j.push(l.Body)
	case forPost:
		j.drop(f)
		f.step = forNext
		if l.Post != nil {
			j.push(l.Post)
		}
	case forNext:
		j.drop(f)
		f.step = forCond
	}
}

func (j *Job) ifStm(f *frame) {
	s := f.node.(*syntax.If)
	switch f.step {
	case 0:
		f.step = 1
		j.push(s.Cond)
	case 1:
		f.step = 2
		if j.truth(f) {
			j.push(s.Then)
		} else if s.Else != nil {
			j.push(s.Else)
		} else {
			j.finish(nil)
		}
	case 2:
		j.finish(f.takeRet())
	}
}

// Switch steps. Once a case matches, its body and every later body run
// in order until the end of the switch or a break.
const (
	switchCond = iota
	switchMatch
	switchTest
	switchBody
	switchNext
)

func (j *Job) switchStm(f *frame) {
	s := f.node.(*syntax.Switch)
	switch f.step {
	case switchCond:
		f.step = switchMatch
		f.cases = s.Cases
		j.push(s.Cond)
	case switchMatch:
		if f.ret2 == nil {
			f.ret2 = f.takeRet()
			if f.ret2 == nil {
				f.ret2 = j.heap.NewVar("", j.heap.NewNil())
			}
		}
		for f.cases != nil && f.cases.Match == nil {
			f.dflt = f.cases
			f.cases = f.cases.Next
		}
		if f.cases == nil {
			if f.dflt == nil {
				j.finish(nil)
				return
			}
			f.cases = f.dflt
			f.step = switchBody
			return
		}
		f.step = switchTest
		j.push(f.cases.Match)
	case switchTest:
		v := f.takeRet()
		match := v != nil && value.Equal(f.ret2.Value(), v.Value())
		j.heap.ReleaseVar(v)
		if match {
			f.step = switchBody
			return
		}
		f.cases = f.cases.Next
		f.step = switchMatch
	case switchBody:
		if f.cases == nil {
			j.finish(nil)
			return
		}
		f.step = switchNext
		if f.cases.Body != nil {
			j.push(f.cases.Body)
		}
	case switchNext:
		j.drop(f)
		f.cases = f.cases.Next
		f.step = switchBody
	}
}

func (j *Job) exp(f *frame) {
	e := f.node.(*syntax.Exp)
	if f.step == 0 {
		f.step = 1
		j.push(e.Expr)
		return
	}
	if e.Next == nil {
		j.finish(f.takeRet())
		return
	}
	j.drop(f)
	f.node = e.Next
	f.step = 0
}

// operand returns the frame's result, or a nil value if the child
// produced none.
func (j *Job) operand(f *frame) *value.Var {
	if v := f.takeRet(); v != nil {
		return v
	}
	return j.heap.NewVar("", j.heap.NewNil())
}

// dispatch applies op to the held operand (ret2) and the last result,
// consuming both, and finishes the frame with the outcome.
func (j *Job) dispatch(f *frame, op value.Op) {
	a, b := f.ret2, j.operand(f)
	f.ret2 = nil
	defer j.heap.ReleaseVar(a)
	defer j.heap.ReleaseVar(b)
	j.finish(value.Dispatch(j, op, a, b))
}

// assign evaluates the right side first, then the target.
func (j *Job) assign(f *frame) {
	a := f.node.(*syntax.Assignment)
	switch f.step {
	case 0:
		f.step = 1
		j.push(a.Right)
	case 1:
		f.ret2 = j.operand(f)
		f.step = 2
		j.push(a.Left)
	case 2:
		right, left := f.ret2, j.operand(f)
		f.ret2 = nil
		defer j.heap.ReleaseVar(left)
		defer j.heap.ReleaseVar(right)
		j.finish(value.Dispatch(j, binaryOps[a.Op], left, right))
	}
}

func (j *Job) binary(f *frame) {
	b := f.node.(*syntax.Binary)
	switch f.step {
	case 0:
		f.step = 1
		j.push(b.Left)
	case 1:
		if b.Op == syntax.LogicOr || b.Op == syntax.LogicAnd {
			t := j.truth(f)
			if t == (b.Op == syntax.LogicOr) {
				j.finish(j.heap.NewVar("", j.heap.NewBool(t)))
				return
			}
			f.step = 3
			j.push(b.Right)
			return
		}
		f.ret2 = j.operand(f)
		f.step = 2
		j.push(b.Right)
	case 2:
		j.dispatch(f, binaryOps[b.Op])
	case 3:
		j.finish(j.heap.NewVar("", j.heap.NewBool(j.truth(f))))
	}
}

func (j *Job) unary(f *frame, op value.Op) {
	a := j.operand(f)
	defer j.heap.ReleaseVar(a)
	j.finish(value.Dispatch(j, op, a, nil))
}

func (j *Job) suffix(f *frame) {
	s := f.node.(*syntax.Suffix)
	if f.step == 0 {
		f.step = 1
		j.push(s.Operand)
		return
	}
	j.unary(f, suffixOps[s.Op])
}

func (j *Job) spec(f *frame) {
	s := f.node.(*syntax.Spec)
	if s.Op == syntax.New {
		sym := j.resolve(s.Name, false)
		if sym == nil || sym.set == nil {
			panic(value.Errorf(value.UndefinedSymbol, "no set %s", s.Name))
		}
		j.finish(j.heap.NewVar("", j.heap.NewObject(sym.set)))
		return
	}
	if f.step == 0 {
		f.step = 1
		j.push(s.Operand)
		return
	}
	j.unary(f, prefixOps[s.Op])
}

func (j *Job) factor(f *frame) {
	x := f.node.(*syntax.Factor)
	h := j.heap
	var v *value.Value
	switch x.Type {
	case syntax.NilFactor:
		v = h.NewNil()
	case syntax.TrueFactor:
		v = h.NewBool(true)
	case syntax.FalseFactor:
		v = h.NewBool(false)
	case syntax.IntFactor:
		v = h.NewInt(x.Int)
	case syntax.RealFactor:
		v = h.NewReal(x.Real)
	case syntax.StringFactor:
		v = h.NewString(x.Str)
	case syntax.IdentFactor:
		sv := j.variable(x.Str)
		j.finish(h.NewRef(x.Str, sv.Value()))
		return
	case syntax.FuncFactor:
		j.finish(h.NewVar("", j.newFunc(x.Func)))
		return
	case syntax.ArrayFactor:
		if x.Elems == nil {
			j.finish(h.NewVar("", h.NewArray()))
			return
		}
		if f.step == 0 {
			f.step = 1
			e := j.push(x.Elems)
			e.arr = h.NewArray()
			return
		}
		j.finish(f.takeRet())
		return
	}
	j.finish(h.NewVar("", v.MarkConstant()))
}

// elemList builds an array literal, one element per pass: key first if
// there is one, then the value.
func (j *Job) elemList(f *frame) {
	e := f.node.(*syntax.ElemList)
	h := j.heap
	switch f.step {
	case 0:
		if e.Key != nil {
			f.step = 1
			j.push(e.Key)
			return
		}
		f.step = 2
		j.push(e.Value)
	case 1:
		f.ret2 = j.operand(f)
		f.step = 2
		j.push(e.Value)
	case 2:
		v := j.operand(f)
		if f.ret2 != nil {
			f.arr.Array().Get(f.ret2.Value(), true).Set(h, v.Value())
			h.ReleaseVar(f.ret2)
			f.ret2 = nil
		} else {
			f.arr.Array().Append(v.Value())
		}
		h.ReleaseVar(v)
		if e.Next == nil {
			arr := f.arr
			f.arr = nil
			j.finish(h.NewVar("", arr))
			return
		}
		f.node = e.Next
		f.step = 0
	}
}
