// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump formats a tree in an unambiguous form for debugging.
// It generates the output for the "parse" debug flag.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n)
	return b.String()
}

func dump(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Stm:
		b.WriteString("{")
		for s := n; s != nil; s = s.Next {
			if s != n {
				b.WriteString("; ")
			}
			dump(b, s.Body)
		}
		b.WriteString("}")
	case *Block:
		switch n.Op {
		case BlockEmpty:
			b.WriteString("<empty>")
		case BlockExp:
			dump(b, n.Exp)
		case BlockStm:
			if n.Stm == nil {
				b.WriteString("{}")
			} else {
				dump(b, n.Stm)
			}
		case BlockContinue:
			b.WriteString("<continue>")
		case BlockBreak:
			b.WriteString("<break>")
		case BlockReturn:
			b.WriteString("<return")
			if n.Exp != nil {
				b.WriteString(" ")
				dump(b, n.Exp)
			}
			b.WriteString(">")
		}
	case *FuncDef:
		fmt.Fprintf(b, "<@%s(", n.Name)
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if a.Ref {
				b.WriteString("&")
			}
			b.WriteString(a.Name)
		}
		b.WriteString(") ")
		if n.Body == nil {
			b.WriteString("{}")
		} else {
			dump(b, n.Body)
		}
		b.WriteString(">")
	case *SetDef:
		fmt.Fprintf(b, "<set %s", n.Name)
		for m := n.Members; m != nil; m = m.Next {
			b.WriteString(" ")
			if m.Func != nil {
				dump(b, m.Func)
			} else {
				b.WriteString(m.Var)
			}
		}
		b.WriteString(">")
	case *While:
		b.WriteString("<while ")
		dump(b, n.Cond)
		b.WriteString(" ")
		dump(b, n.Body)
		b.WriteString(">")
	case *For:
		b.WriteString("<for ")
		dumpOpt(b, n.Init)
		b.WriteString("; ")
		dumpOpt(b, n.Cond)
		b.WriteString("; ")
		dumpOpt(b, n.Post)
		b.WriteString(" ")
		dump(b, n.Body)
		b.WriteString(">")
	case *If:
		b.WriteString("<if ")
		dump(b, n.Cond)
		b.WriteString(" ")
		dump(b, n.Then)
		if n.Else != nil {
			b.WriteString(" else ")
			dump(b, n.Else)
		}
		b.WriteString(">")
	case *Switch:
		b.WriteString("<switch ")
		dump(b, n.Cond)
		for c := n.Cases; c != nil; c = c.Next {
			if c.Match == nil {
				b.WriteString(" default:")
			} else {
				b.WriteString(" case ")
				dump(b, c.Match)
				b.WriteString(":")
			}
			if c.Body != nil {
				b.WriteString(" ")
				dump(b, c.Body)
			}
		}
		b.WriteString(">")
	case *Exp:
		if n.Next == nil {
			dump(b, n.Expr)
			return
		}
		b.WriteString("<")
		for e := n; e != nil; e = e.Next {
			if e != n {
				b.WriteString(", ")
			}
			dump(b, e.Expr)
		}
		b.WriteString(">")
	case *Assignment:
		fmt.Fprintf(b, "(")
		dump(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Op)
		dump(b, n.Right)
		b.WriteString(")")
	case *Binary:
		b.WriteString("(")
		dump(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Op)
		dump(b, n.Right)
		b.WriteString(")")
	case *Suffix:
		b.WriteString("(")
		dump(b, n.Operand)
		fmt.Fprintf(b, "%s)", n.Op)
	case *Spec:
		if n.Op == New {
			fmt.Fprintf(b, "($%s)", n.Name)
			return
		}
		fmt.Fprintf(b, "(%s", n.Op)
		dump(b, n.Operand)
		b.WriteString(")")
	case *Locate:
		dump(b, n.Left)
		switch n.Op {
		case Index:
			b.WriteString("[")
			dump(b, n.Index)
			b.WriteString("]")
		case Property:
			fmt.Fprintf(b, ".%s", n.Name)
		case Call:
			b.WriteString("(")
			dumpElems(b, n.Args)
			b.WriteString(")")
		}
	case *Factor:
		switch n.Type {
		case NilFactor:
			b.WriteString("nil")
		case TrueFactor:
			b.WriteString("true")
		case FalseFactor:
			b.WriteString("false")
		case IntFactor:
			fmt.Fprintf(b, "<int %d>", n.Int)
		case RealFactor:
			fmt.Fprintf(b, "<real %s>", strconv.FormatFloat(n.Real, 'g', -1, 64))
		case StringFactor:
			fmt.Fprintf(b, "<string %q>", n.Str)
		case IdentFactor:
			fmt.Fprintf(b, "<var %s>", n.Str)
		case ArrayFactor:
			b.WriteString("[")
			dumpElems(b, n.Elems)
			b.WriteString("]")
		case FuncFactor:
			dump(b, n.Func)
		}
	default:
		fmt.Fprintf(b, "%T", n)
	}
}

func dumpOpt(b *strings.Builder, e *Exp) {
	if e != nil {
		dump(b, e)
	}
}

func dumpElems(b *strings.Builder, e *ElemList) {
	for l := e; l != nil; l = l.Next {
		if l != e {
			b.WriteString(", ")
		}
		if l.Key != nil {
			dump(b, l.Key)
			b.WriteString(": ")
		}
		dump(b, l.Value)
	}
}
