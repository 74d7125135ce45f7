// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines the tree consumed by the evaluation stack machine.
// Every node reports its production kind and its children in evaluation
// order. Trees are never modified after parsing, so one tree may be shared
// by many jobs.
package syntax // import "github.com/melon-lang/mel/syntax"

// Kind identifies the production a node belongs to.
type Kind int

const (
	StmKind Kind = iota
	FuncDefKind
	SetKind
	BlockKind
	WhileKind
	SwitchKind
	ForKind
	IfKind
	ExpKind
	AssignKind
	LogicLowKind
	LogicHighKind
	RelativeLowKind
	RelativeHighKind
	MoveKind
	AddSubKind
	MulDivKind
	SuffixKind
	LocateKind
	SpecKind
	FactorKind
	ElemListKind
	SetStmKind
	SwitchStmKind
)

var kindNames = [...]string{
	StmKind:          "stm",
	FuncDefKind:      "funcdef",
	SetKind:          "set",
	BlockKind:        "block",
	WhileKind:        "while",
	SwitchKind:       "switch",
	ForKind:          "for",
	IfKind:           "if",
	ExpKind:          "exp",
	AssignKind:       "assign",
	LogicLowKind:     "logiclow",
	LogicHighKind:    "logichigh",
	RelativeLowKind:  "relativelow",
	RelativeHighKind: "relativehigh",
	MoveKind:         "move",
	AddSubKind:       "addsub",
	MulDivKind:       "muldiv",
	SuffixKind:       "suffix",
	LocateKind:       "locate",
	SpecKind:         "spec",
	FactorKind:       "factor",
	ElemListKind:     "elemlist",
	SetStmKind:       "setstm",
	SwitchStmKind:    "switchstm",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	// Children returns the non-nil child nodes in evaluation order.
	Children() []Node
	// Line is the source line the node starts on.
	Line() int
}

// Pos is embedded in nodes to record their source line.
type Pos int

func (p Pos) Line() int { return int(p) }

// Op names an operator. The same set is used by binary levels, prefix and
// suffix operators and compound assignments.
type Op int

const (
	NoOp Op = iota
	Assign
	AddAssign
	SubAssign
	LshAssign
	RshAssign
	MulAssign
	DivAssign
	OrAssign
	AndAssign
	XorAssign
	ModAssign
	LogicOr  // ||
	LogicAnd // &&
	Or       // |
	And      // &
	Xor      // ^
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Lsh
	Rsh
	Add
	Sub
	Mul
	Div
	Mod
	Inc // ++, prefix or suffix
	Dec // --, prefix or suffix
	Neg
	Reverse // ~
	Not
	New // $
)

var opNames = [...]string{
	NoOp: "", Assign: "=", AddAssign: "+=", SubAssign: "-=", LshAssign: "<<=",
	RshAssign: ">>=", MulAssign: "*=", DivAssign: "/=", OrAssign: "|=",
	AndAssign: "&=", XorAssign: "^=", ModAssign: "%=", LogicOr: "||",
	LogicAnd: "&&", Or: "|", And: "&", Xor: "^", Eq: "==", Ne: "!=", Lt: "<",
	Le: "<=", Gt: ">", Ge: ">=", Lsh: "<<", Rsh: ">>", Add: "+", Sub: "-",
	Mul: "*", Div: "/", Mod: "%", Inc: "++", Dec: "--", Neg: "-",
	Reverse: "~", Not: "!", New: "$",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "?"
	}
	return opNames[o]
}

// nodes collects the non-nil nodes among its arguments. A typed nil
// pointer stored in a Node interface is dropped too.
func nodes(list ...Node) []Node {
	var out []Node
	for _, n := range list {
		if n == nil || isNil(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func isNil(n Node) bool {
	switch n := n.(type) {
	case *Stm:
		return n == nil
	case *Block:
		return n == nil
	case *Exp:
		return n == nil
	case *ElemList:
		return n == nil
	case *FuncDef:
		return n == nil
	case *SetStm:
		return n == nil
	case *SwitchStm:
		return n == nil
	case *Factor:
		return n == nil
	}
	return false
}
