// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

// Operators on booleans, strings, objects and arrays.

// concat joins the printed forms of a and b.
func concat(c Context, a, b *Var) *Var {
	return result(c, c.Heap().NewString(a.val.String()+b.val.String()))
}

func logic(op Op) Handler {
	return func(c Context, a, b *Var) *Var {
		if b.val.kind != BoolKind {
			panic(unsupported(op, a, b))
		}
		x, y := a.val.b, b.val.b
		switch op {
		case OpCor:
			return boolResult(c, x || y)
		case OpCand:
			return boolResult(c, x && y)
		}
		return boolResult(c, x != y)
	}
}

func boolOps() map[Op]Handler {
	return map[Op]Handler{
		OpCor:   logic(OpCor),
		OpCand:  logic(OpCand),
		OpCxor:  logic(OpCxor),
		OpOrEq:  compound(OpCor),
		OpAndEq: compound(OpCand),
		OpXorEq: compound(OpCxor),
	}
}

// stringIndex yields the byte at an integer index as a one-byte string,
// or nil when the index is out of range.
func stringIndex(c Context, a, b *Var) *Var {
	if b.val.kind != IntKind {
		panic(unsupported(OpIndex, a, b))
	}
	s, i := a.val.s, b.val.i
	if i < 0 || i >= int64(len(s)) {
		return result(c, c.Heap().NewNil())
	}
	return result(c, c.Heap().NewString(s[i:i+1]))
}

func stringOps() map[Op]Handler {
	return map[Op]Handler{
		OpPlus:   concat,
		OpPlusEq: compound(OpPlus),
		OpLt:     compare(OpLt),
		OpLe:     compare(OpLe),
		OpGt:     compare(OpGt),
		OpGe:     compare(OpGe),
		OpIndex:  stringIndex,
	}
}

// property yields a reference to an object member. A string operand
// names the member, which is created nil if missing. A pending call
// operand is a method call: the call moves out of b into the result,
// with the object bound as its receiver.
func property(c Context, a, b *Var) *Var {
	h := c.Heap()
	obj := a.val.obj
	switch b.val.kind {
	case StringKind:
		m := obj.Vivify(b.val.s)
		return h.NewRef(m.name, m.val)
	case CallKind:
		call := b.val.call
		m, ok := obj.Member(call.Name)
		if !ok || m.val.kind != FuncKind {
			panic(Errorf(UndefinedSymbol, "%s has no method %s", obj.SetName(), call.Name))
		}
		b.val.call = nil
		b.val.kind = NilKind
		call.Fn = m.val.fn
		if call.This != nil {
			h.ReleaseValue(call.This)
		}
		call.This = h.Dup(a.val)
		v := h.newValue(CallKind)
		v.call = call
		return result(c, v)
	}
	panic(unsupported(OpProperty, a, b))
}

// objectPlus concatenates with a string; objects support no other
// arithmetic.
func objectPlus(c Context, a, b *Var) *Var {
	if b.val.kind != StringKind {
		panic(unsupported(OpPlus, a, b))
	}
	return concat(c, a, b)
}

func objectOps() map[Op]Handler {
	return map[Op]Handler{
		OpPlus:     objectPlus,
		OpProperty: property,
	}
}

// arrayIndex yields a reference to an element, creating it nil if
// missing.
func arrayIndex(c Context, a, b *Var) *Var {
	e := a.val.arr.Get(b.val, true)
	return c.Heap().NewRef("", e.val)
}

func arrayOps() map[Op]Handler {
	return map[Op]Handler{
		OpIndex: arrayIndex,
	}
}
