// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Op identifies an entry in the operator table.
type Op int

const (
	OpAssign Op = iota
	OpPlusEq
	OpSubEq
	OpLmovEq
	OpRmovEq
	OpMulEq
	OpDivEq
	OpOrEq
	OpAndEq
	OpXorEq
	OpModEq
	OpCor  // |
	OpCand // &
	OpCxor // ^
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpLmov
	OpRmov
	OpPlus
	OpSub
	OpMul
	OpDiv
	OpMod
	OpSdec // x--
	OpSinc // x++
	OpIndex
	OpProperty
	OpNegative
	OpReverse
	OpNot
	OpPinc // ++x
	OpPdec // --x
	numOps
)

var opNames = [numOps]string{
	OpAssign: "=", OpPlusEq: "+=", OpSubEq: "-=", OpLmovEq: "<<=", OpRmovEq: ">>=",
	OpMulEq: "*=", OpDivEq: "/=", OpOrEq: "|=", OpAndEq: "&=", OpXorEq: "^=",
	OpModEq: "%=", OpCor: "|", OpCand: "&", OpCxor: "^", OpEq: "==", OpNe: "!=",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=", OpLmov: "<<", OpRmov: ">>",
	OpPlus: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpSdec: "--",
	OpSinc: "++", OpIndex: "[]", OpProperty: ".", OpNegative: "-", OpReverse: "~",
	OpNot: "!", OpPinc: "++", OpPdec: "--",
}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return "?"
	}
	return opNames[op]
}

// Unary reports whether op takes a single operand.
func (op Op) Unary() bool {
	switch op {
	case OpSdec, OpSinc, OpNegative, OpReverse, OpNot, OpPinc, OpPdec:
		return true
	}
	return false
}

// Handler implements one operator for one kind of left operand. It
// borrows its operands (b is nil for unary operators) and returns a var
// the caller owns.
type Handler func(c Context, a, b *Var) *Var

// methods is the operator table: one row per kind, one entry per
// operator. A nil entry means the kind does not support the operator.
var methods [numKind]*[numOps]Handler

// Dispatch applies op. The kind of a's value selects the handler.
func Dispatch(c Context, op Op, a, b *Var) *Var {
	var h Handler
	if row := methods[a.val.kind]; row != nil {
		h = row[op]
	}
	if h == nil {
		panic(unsupported(op, a, b))
	}
	return h(c, a, b)
}

// Supported reports whether values of kind k implement op.
func Supported(k Kind, op Op) bool {
	row := methods[k]
	return row != nil && row[op] != nil
}

func unsupported(op Op, a, b *Var) Error {
	if b == nil || op.Unary() {
		return Errorf(TypeError, "operation not supported: %s%s", op, a.val.kind)
	}
	return Errorf(TypeError, "operation not supported: %s %s %s", a.val.kind, op, b.val.kind)
}

// result wraps a new value in an anonymous var.
func result(c Context, v *Value) *Var {
	return c.Heap().NewVar("", v)
}

func boolResult(c Context, t bool) *Var {
	return result(c, c.Heap().NewBool(t))
}

// assign stores b into a and yields a.
func assign(c Context, a, b *Var) *Var {
	a.Set(c.Heap(), b.val)
	return a.Retain()
}

// compound returns the handler for a op= b: a = a op b, yielding a.
func compound(op Op) Handler {
	return func(c Context, a, b *Var) *Var {
		h := c.Heap()
		res := Dispatch(c, op, a, b)
		defer h.ReleaseVar(res)
		a.Set(h, res.val)
		return a.Retain()
	}
}

func not(c Context, a, _ *Var) *Var {
	return boolResult(c, !a.val.Truth())
}

func eq(c Context, a, b *Var) *Var {
	return boolResult(c, Equal(a.val, b.val))
}

func ne(c Context, a, b *Var) *Var {
	return boolResult(c, !Equal(a.val, b.val))
}

func isNumber(v *Value) bool {
	return v.kind == IntKind || v.kind == RealKind
}

// Equal reports whether a == b. Numbers compare by value across int and
// real; composites and functions compare by identity; values of
// different kinds are otherwise unequal.
func Equal(a, b *Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.kind == IntKind && b.kind == IntKind {
			return a.i == b.i
		}
		return a.ToReal() == b.ToReal()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NilKind:
		return true
	case BoolKind:
		return a.b == b.b
	case StringKind:
		return a.s == b.s
	case ObjectKind:
		return a.obj == b.obj
	case ArrayKind:
		return a.arr == b.arr
	case FuncKind:
		return a.fn == b.fn
	}
	return false
}

// row builds a table row from the given entries plus the entries every
// kind has: assignment, equality and logical not.
func row(entries map[Op]Handler) *[numOps]Handler {
	var r [numOps]Handler
	r[OpAssign] = assign
	r[OpEq] = eq
	r[OpNe] = ne
	r[OpNot] = not
	for op, h := range entries {
		r[op] = h
	}
	return &r
}

func init() {
	methods[NilKind] = row(nil)
	methods[IntKind] = row(intOps())
	methods[RealKind] = row(realOps())
	methods[BoolKind] = row(boolOps())
	methods[StringKind] = row(stringOps())
	methods[ObjectKind] = row(objectOps())
	methods[FuncKind] = row(nil)
	methods[ArrayKind] = row(arrayOps())
	methods[CallKind] = row(map[Op]Handler{OpEq: nil, OpNe: nil})
}
