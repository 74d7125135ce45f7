// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "testing"

func TestChildrenSkipsNil(t *testing.T) {
	var tests = []struct {
		node Node
		want int
	}{
		{&Stm{}, 0},
		{&Block{Op: BlockReturn}, 0},
		{&For{Body: &Block{}}, 1},
		{&For{Init: &Exp{}, Post: &Exp{}, Body: &Block{}}, 3},
		{&If{Cond: &Exp{}, Then: &Block{}}, 2},
		{&Locate{Left: &Factor{}, Op: Call}, 1},
		{&Spec{Op: New, Name: "P"}, 0},
		{&SwitchStm{Body: &Stm{}}, 1},
	}
	for _, test := range tests {
		if got := len(test.node.Children()); got != test.want {
			t.Errorf("%s: %d children; want %d", test.node.Kind(), got, test.want)
		}
	}
}

func TestBinaryKind(t *testing.T) {
	for _, k := range []Kind{LogicLowKind, LogicHighKind, RelativeLowKind, RelativeHighKind, MoveKind, AddSubKind, MulDivKind} {
		b := NewBinary(k, 7, &Factor{}, Add, &Factor{})
		if b.Kind() != k || b.Line() != 7 {
			t.Errorf("NewBinary(%s): kind %s line %d", k, b.Kind(), b.Line())
		}
	}
}

func TestNames(t *testing.T) {
	if s := WhileKind.String(); s != "while" {
		t.Errorf("WhileKind = %q", s)
	}
	if s := Kind(-1).String(); s != "unknown" {
		t.Errorf("Kind(-1) = %q", s)
	}
	if s := LshAssign.String(); s != "<<=" {
		t.Errorf("LshAssign = %q", s)
	}
}

func TestDump(t *testing.T) {
	n := &Stm{Body: &Block{Op: BlockExp, Exp: &Exp{Expr: &Assignment{
		Left:  &Factor{Type: IdentFactor, Str: "x"},
		Op:    Assign,
		Right: &Factor{Type: ArrayFactor, Elems: &ElemList{Value: &Factor{Type: RealFactor, Real: 0.5}}},
	}}}}
	if got, want := Dump(n), "{(<var x> = [<real 0.5>])}"; got != want {
		t.Errorf("Dump = %s; want %s", got, want)
	}
}
