// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math"

// Numeric operators. An int combined with a real is promoted to real.

func intArith(op Op, x, y int64) int64 {
	switch op {
	case OpPlus:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		if y == 0 {
			panic(Errorf(ArithmeticError, "division by zero"))
		}
		return x / y
	case OpMod:
		if y == 0 {
			panic(Errorf(ArithmeticError, "modulo by zero"))
		}
		return x % y
	}
	panic(Errorf(InternalError, "bad integer operator %s", op))
}

func realArith(op Op, x, y float64) float64 {
	switch op {
	case OpPlus:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		if y == 0 {
			panic(Errorf(ArithmeticError, "division by zero"))
		}
		return x / y
	case OpMod:
		if y == 0 {
			panic(Errorf(ArithmeticError, "modulo by zero"))
		}
		return math.Mod(x, y)
	}
	panic(Errorf(InternalError, "bad real operator %s", op))
}

// arith returns the handler for an arithmetic operator on numbers.
// For OpPlus a string right operand means concatenation.
func arith(op Op) Handler {
	return func(c Context, a, b *Var) *Var {
		x, y := a.val, b.val
		h := c.Heap()
		switch {
		case x.kind == IntKind && y.kind == IntKind:
			return result(c, h.NewInt(intArith(op, x.i, y.i)))
		case isNumber(y):
			return result(c, h.NewReal(realArith(op, x.ToReal(), y.ToReal())))
		case op == OpPlus && y.kind == StringKind:
			return concat(c, a, b)
		}
		panic(unsupported(op, a, b))
	}
}

// bitwise returns the handler for a shift or bitwise operator on ints.
func bitwise(op Op) Handler {
	return func(c Context, a, b *Var) *Var {
		if b.val.kind != IntKind {
			panic(unsupported(op, a, b))
		}
		x, y := a.val.i, b.val.i
		var z int64
		switch op {
		case OpLmov, OpRmov:
			if y < 0 {
				panic(Errorf(ArithmeticError, "negative shift count %d", y))
			}
			if op == OpLmov {
				z = x << uint64(y)
			} else {
				z = x >> uint64(y)
			}
		case OpCor:
			z = x | y
		case OpCand:
			z = x & y
		case OpCxor:
			z = x ^ y
		}
		return result(c, c.Heap().NewInt(z))
	}
}

// compare returns the handler for an ordering operator. Numbers compare
// with numbers and strings with strings.
func compare(op Op) Handler {
	return func(c Context, a, b *Var) *Var {
		x, y := a.val, b.val
		var cmp int
		switch {
		case x.kind == IntKind && y.kind == IntKind:
			cmp = cmpOrdered(x.i, y.i)
		case isNumber(x) && isNumber(y):
			cmp = cmpOrdered(x.ToReal(), y.ToReal())
		case x.kind == StringKind && y.kind == StringKind:
			cmp = cmpOrdered(x.s, y.s)
		default:
			panic(unsupported(op, a, b))
		}
		var t bool
		switch op {
		case OpLt:
			t = cmp < 0
		case OpLe:
			t = cmp <= 0
		case OpGt:
			t = cmp > 0
		case OpGe:
			t = cmp >= 0
		}
		return boolResult(c, t)
	}
}

func cmpOrdered[T int64 | float64 | string](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// step adds delta to a number.
func step(h *Heap, v *Value, delta int64) *Value {
	if v.kind == IntKind {
		return h.NewInt(v.i + delta)
	}
	return h.NewReal(v.r + float64(delta))
}

// prefixStep returns the handler for ++x and --x: modify in place and
// yield the variable.
func prefixStep(delta int64) Handler {
	return func(c Context, a, _ *Var) *Var {
		h := c.Heap()
		n := step(h, a.val, delta)
		defer h.ReleaseValue(n)
		a.Set(h, n)
		return a.Retain()
	}
}

// suffixStep returns the handler for x++ and x--: modify in place and
// yield the old value.
func suffixStep(delta int64) Handler {
	return func(c Context, a, _ *Var) *Var {
		h := c.Heap()
		if a.val.notModify {
			panic(Errorf(TypeError, "cannot modify constant %s", a.val))
		}
		old := result(c, h.Dup(a.val))
		n := step(h, a.val, delta)
		defer h.ReleaseValue(n)
		a.Set(h, n)
		return old
	}
}

func negative(c Context, a, _ *Var) *Var {
	h := c.Heap()
	if a.val.kind == IntKind {
		return result(c, h.NewInt(-a.val.i))
	}
	return result(c, h.NewReal(-a.val.r))
}

func reverse(c Context, a, _ *Var) *Var {
	return result(c, c.Heap().NewInt(^a.val.i))
}

func numberOps() map[Op]Handler {
	m := map[Op]Handler{
		OpLt:       compare(OpLt),
		OpLe:       compare(OpLe),
		OpGt:       compare(OpGt),
		OpGe:       compare(OpGe),
		OpNegative: negative,
		OpPinc:     prefixStep(1),
		OpPdec:     prefixStep(-1),
		OpSinc:     suffixStep(1),
		OpSdec:     suffixStep(-1),
	}
	for _, op := range []Op{OpPlus, OpSub, OpMul, OpDiv, OpMod} {
		m[op] = arith(op)
	}
	m[OpPlusEq] = compound(OpPlus)
	m[OpSubEq] = compound(OpSub)
	m[OpMulEq] = compound(OpMul)
	m[OpDivEq] = compound(OpDiv)
	m[OpModEq] = compound(OpMod)
	return m
}

func intOps() map[Op]Handler {
	m := numberOps()
	for _, op := range []Op{OpLmov, OpRmov, OpCor, OpCand, OpCxor} {
		m[op] = bitwise(op)
	}
	m[OpLmovEq] = compound(OpLmov)
	m[OpRmovEq] = compound(OpRmov)
	m[OpOrEq] = compound(OpCor)
	m[OpAndEq] = compound(OpCand)
	m[OpXorEq] = compound(OpCxor)
	m[OpReverse] = reverse
	return m
}

func realOps() map[Op]Handler {
	return numberOps()
}
