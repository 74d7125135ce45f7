// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Stm is one element of a statement list. Body is a *Block, *FuncDef,
// *SetDef, *While, *For, *If or *Switch.
type Stm struct {
	Pos
	Body Node
	Next *Stm
}

func (s *Stm) Kind() Kind       { return StmKind }
func (s *Stm) Children() []Node { return nodes(s.Body, s.Next) }

// BlockOp distinguishes the forms of a block statement.
type BlockOp int

const (
	BlockEmpty BlockOp = iota // ;
	BlockExp                  // expression;
	BlockStm                  // { statements }
	BlockContinue
	BlockBreak
	BlockReturn // return [expression];
)

type Block struct {
	Pos
	Op  BlockOp
	Exp *Exp // BlockExp, or BlockReturn with a value.
	Stm *Stm // BlockStm; nil for {}.
}

func (b *Block) Kind() Kind       { return BlockKind }
func (b *Block) Children() []Node { return nodes(b.Exp, b.Stm) }

// Arg is a formal parameter. Ref marks a by-reference parameter (&name).
type Arg struct {
	Name string
	Ref  bool
}

// FuncDef is a function definition, named or anonymous.
type FuncDef struct {
	Pos
	Name string // Empty for an anonymous function.
	Args []Arg
	Body *Stm
}

func (f *FuncDef) Kind() Kind       { return FuncDefKind }
func (f *FuncDef) Children() []Node { return nodes(f.Body) }

// SetDef defines a set: a named template from which objects are made.
type SetDef struct {
	Pos
	Name    string
	Members *SetStm
}

func (s *SetDef) Kind() Kind       { return SetKind }
func (s *SetDef) Children() []Node { return nodes(s.Members) }

// SetStm is one member of a set: either a field (Var) or a method (Func).
type SetStm struct {
	Pos
	Var  string
	Func *FuncDef
	Next *SetStm
}

func (s *SetStm) Kind() Kind       { return SetStmKind }
func (s *SetStm) Children() []Node { return nodes(s.Func, s.Next) }

type While struct {
	Pos
	Cond *Exp
	Body *Block
}

func (w *While) Kind() Kind       { return WhileKind }
func (w *While) Children() []Node { return nodes(w.Cond, w.Body) }

// For is a C-style loop. Any of Init, Cond and Post may be nil;
// a missing Cond is true.
type For struct {
	Pos
	Init *Exp
	Cond *Exp
	Post *Exp
	Body *Block
}

func (f *For) Kind() Kind       { return ForKind }
func (f *For) Children() []Node { return nodes(f.Init, f.Cond, f.Post, f.Body) }

type If struct {
	Pos
	Cond *Exp
	Then *Block
	Else *Block
}

func (i *If) Kind() Kind       { return IfKind }
func (i *If) Children() []Node { return nodes(i.Cond, i.Then, i.Else) }

type Switch struct {
	Pos
	Cond  *Exp
	Cases *SwitchStm
}

func (s *Switch) Kind() Kind       { return SwitchKind }
func (s *Switch) Children() []Node { return nodes(s.Cond, s.Cases) }

// SwitchStm is one case of a switch. A nil Match is the default case.
type SwitchStm struct {
	Pos
	Match Node
	Body  *Stm
	Next  *SwitchStm
}

func (s *SwitchStm) Kind() Kind       { return SwitchStmKind }
func (s *SwitchStm) Children() []Node { return nodes(s.Match, s.Body, s.Next) }

// Exp is a comma-separated expression list; its value is the last one's.
type Exp struct {
	Pos
	Expr Node
	Next *Exp
}

func (e *Exp) Kind() Kind       { return ExpKind }
func (e *Exp) Children() []Node { return nodes(e.Expr, e.Next) }

// Assignment is right-associative: Right may itself be an *Assignment.
type Assignment struct {
	Pos
	Left  Node
	Op    Op
	Right Node
}

func (a *Assignment) Kind() Kind       { return AssignKind }
func (a *Assignment) Children() []Node { return nodes(a.Left, a.Right) }

// Binary is an operator at one of the precedence levels from LogicLow
// through MulDiv. Chains are left-nested: a-b-c is (a-b)-c.
type Binary struct {
	Pos
	kind  Kind
	Left  Node
	Op    Op
	Right Node
}

// NewBinary returns a binary node of the given precedence level.
func NewBinary(kind Kind, line int, left Node, op Op, right Node) *Binary {
	return &Binary{Pos: Pos(line), kind: kind, Left: left, Op: op, Right: right}
}

func (b *Binary) Kind() Kind       { return b.kind }
func (b *Binary) Children() []Node { return nodes(b.Left, b.Right) }

// Suffix is x++ or x--.
type Suffix struct {
	Pos
	Operand Node
	Op      Op
}

func (s *Suffix) Kind() Kind       { return SuffixKind }
func (s *Suffix) Children() []Node { return nodes(s.Operand) }

// LocateOp distinguishes the forms of a locate expression.
type LocateOp int

const (
	Index    LocateOp = iota // Left[Index]
	Property                 // Left.Name
	Call                     // Left(Args)
)

// Locate applies one index, property or call to Left. Chains nest on the
// left: a.b(c)[d] is Index(Call(Property(a, b), c), d).
type Locate struct {
	Pos
	Left  Node
	Op    LocateOp
	Index *Exp
	Name  string
	Args  *ElemList
}

func (l *Locate) Kind() Kind       { return LocateKind }
func (l *Locate) Children() []Node { return nodes(l.Left, l.Index, l.Args) }

// Spec is a prefix operator. For New, Name holds the set to instantiate
// and Operand is nil.
type Spec struct {
	Pos
	Op      Op
	Operand Node
	Name    string
}

func (s *Spec) Kind() Kind       { return SpecKind }
func (s *Spec) Children() []Node { return nodes(s.Operand) }

// FactorType identifies the form of a factor.
type FactorType int

const (
	NilFactor FactorType = iota
	TrueFactor
	FalseFactor
	IntFactor
	RealFactor
	StringFactor
	IdentFactor
	ArrayFactor
	FuncFactor
)

type Factor struct {
	Pos
	Type  FactorType
	Int   int64
	Real  float64
	Str   string // String contents or identifier name.
	Elems *ElemList
	Func  *FuncDef
}

func (f *Factor) Kind() Kind       { return FactorKind }
func (f *Factor) Children() []Node { return nodes(f.Elems, f.Func) }

// ElemList is an array literal's element list or a call's arguments.
// Key is set only for keyed array elements.
type ElemList struct {
	Pos
	Key   Node
	Value Node
	Next  *ElemList
}

func (e *ElemList) Kind() Kind       { return ElemListKind }
func (e *ElemList) Children() []Node { return nodes(e.Key, e.Value, e.Next) }
