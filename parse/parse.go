// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse builds syntax trees from mel source text.
package parse // import "github.com/melon-lang/mel/parse"

import (
	"fmt"
	"strconv"

	"github.com/melon-lang/mel/scan"
	"github.com/melon-lang/mel/syntax"
)

// Error is a syntax error with its position.
type Error struct {
	Name string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

// Parser stores the state for the mel parser.
type Parser struct {
	scanner  *scan.Scanner
	tokens   []scan.Token
	fileName string
	lineNum  int
}

// NewParser returns a new parser that will read from the scanner.
func NewParser(fileName string, scanner *scan.Scanner) *Parser {
	return &Parser{
		scanner:  scanner,
		fileName: fileName,
	}
}

// Parse parses the complete source and returns its statement list.
// An empty program yields a nil list.
func Parse(name, src string) (*syntax.Stm, error) {
	return NewParser(name, scan.New(name, src)).Program()
}

// Program reads all remaining input and returns its statements.
func (p *Parser) Program() (prog *syntax.Stm, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			prog, err = nil, e
		}
	}()
	p.readTokens()
	prog = p.statementList()
	if tok := p.peek(); tok.Type != scan.EOF {
		p.errorf("unexpected %s", tok)
	}
	return prog, nil
}

// readTokens reads the whole input before parsing, which gives us
// unlimited lookahead and reports scan errors up front.
func (p *Parser) readTokens() {
	p.tokens = p.tokens[:0]
	for {
		tok := p.scanner.Next()
		p.lineNum = tok.Line
		switch tok.Type {
		case scan.Error:
			p.errorf("%s", tok.Text)
		case scan.EOF:
			p.lineNum = 1
			return
		}
		p.tokens = append(p.tokens, tok)
	}
}

func (p *Parser) next() scan.Token {
	tok := p.peek()
	if tok.Type != scan.EOF {
		p.tokens = p.tokens[1:]
		p.lineNum = tok.Line
	}
	return tok
}

func (p *Parser) peek() scan.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) scan.Token {
	if n >= len(p.tokens) {
		return scan.Token{Type: scan.EOF, Line: p.lineNum, Text: "EOF"}
	}
	return p.tokens[n]
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.tokens = nil
	panic(&Error{Name: p.fileName, Line: p.lineNum, Msg: fmt.Sprintf(format, args...)})
}

// expect consumes the next token, which must have the given type and,
// if text is not empty, that text.
func (p *Parser) expect(typ scan.Type, text string) scan.Token {
	tok := p.next()
	if tok.Type != typ || text != "" && tok.Text != text {
		want := text
		if want == "" {
			want = typ.String()
		}
		p.errorf("expected %s, found %s", want, tok)
	}
	return tok
}

// is reports whether the next token has the given type and text.
func (p *Parser) is(typ scan.Type, text string) bool {
	tok := p.peek()
	return tok.Type == typ && (text == "" || tok.Text == text)
}

func (p *Parser) isKeyword(word string) bool {
	return p.is(scan.Keyword, word)
}

// statementList:
//
//	{ statement }
//
// It stops at EOF, '}' or a switch label.
func (p *Parser) statementList() *syntax.Stm {
	var head, tail *syntax.Stm
	for {
		tok := p.peek()
		if tok.Type == scan.EOF || tok.Type == scan.RightBrace || p.isKeyword("case") || p.isKeyword("default") {
			return head
		}
		s := &syntax.Stm{Pos: syntax.Pos(tok.Line), Body: p.statement()}
		if head == nil {
			head = s
		} else {
			tail.Next = s
		}
		tail = s
	}
}

// statement:
//
//	'@' name '(' args ')' '{' statementList '}'
//	name '{' setMembers '}'
//	if | while | for | switch
//	block
func (p *Parser) statement() syntax.Node {
	tok := p.peek()
	switch tok.Type {
	case scan.At:
		if p.peekN(1).Type == scan.Identifier {
			p.next()
			return p.funcDef(p.next())
		}
	case scan.Identifier:
		if p.peekN(1).Type == scan.LeftBrace {
			return p.setDef()
		}
	case scan.Keyword:
		switch tok.Text {
		case "if":
			return p.ifStm()
		case "while":
			return p.whileStm()
		case "for":
			return p.forStm()
		case "switch":
			return p.switchStm()
		}
	}
	return p.block()
}

// block:
//
//	';'
//	'{' statementList '}'
//	continue ';'
//	break ';'
//	return [exp] ';'
//	exp ';'
func (p *Parser) block() *syntax.Block {
	tok := p.peek()
	b := &syntax.Block{Pos: syntax.Pos(tok.Line)}
	switch {
	case tok.Type == scan.Semicolon:
		p.next()
		b.Op = syntax.BlockEmpty
	case tok.Type == scan.LeftBrace:
		p.next()
		b.Op = syntax.BlockStm
		b.Stm = p.statementList()
		p.expect(scan.RightBrace, "")
	case p.isKeyword("continue"):
		p.next()
		b.Op = syntax.BlockContinue
		p.expect(scan.Semicolon, "")
	case p.isKeyword("break"):
		p.next()
		b.Op = syntax.BlockBreak
		p.expect(scan.Semicolon, "")
	case p.isKeyword("return"):
		p.next()
		b.Op = syntax.BlockReturn
		if !p.is(scan.Semicolon, "") {
			b.Exp = p.exp()
		}
		p.expect(scan.Semicolon, "")
	default:
		b.Op = syntax.BlockExp
		b.Exp = p.exp()
		p.expect(scan.Semicolon, "")
	}
	return b
}

// body parses the statement controlled by if, while or for.
// A statement that is not already a block is wrapped in one.
func (p *Parser) body() *syntax.Block {
	line := p.peek().Line
	n := p.statement()
	if b, ok := n.(*syntax.Block); ok {
		return b
	}
	return &syntax.Block{
		Pos: syntax.Pos(line),
		Op:  syntax.BlockStm,
		Stm: &syntax.Stm{Pos: syntax.Pos(line), Body: n},
	}
}

// cond parses a parenthesized expression.
func (p *Parser) cond() *syntax.Exp {
	p.expect(scan.LeftParen, "")
	e := p.exp()
	p.expect(scan.RightParen, "")
	return e
}

func (p *Parser) ifStm() *syntax.If {
	tok := p.next()
	n := &syntax.If{Pos: syntax.Pos(tok.Line)}
	n.Cond = p.cond()
	n.Then = p.body()
	if p.isKeyword("else") {
		p.next()
		n.Else = p.body()
	}
	return n
}

func (p *Parser) whileStm() *syntax.While {
	tok := p.next()
	n := &syntax.While{Pos: syntax.Pos(tok.Line)}
	n.Cond = p.cond()
	n.Body = p.body()
	return n
}

// forStm:
//
//	for '(' [exp] ';' [exp] ';' [exp] ')' statement
func (p *Parser) forStm() *syntax.For {
	tok := p.next()
	n := &syntax.For{Pos: syntax.Pos(tok.Line)}
	p.expect(scan.LeftParen, "")
	if !p.is(scan.Semicolon, "") {
		n.Init = p.exp()
	}
	p.expect(scan.Semicolon, "")
	if !p.is(scan.Semicolon, "") {
		n.Cond = p.exp()
	}
	p.expect(scan.Semicolon, "")
	if !p.is(scan.RightParen, "") {
		n.Post = p.exp()
	}
	p.expect(scan.RightParen, "")
	n.Body = p.body()
	return n
}

// switchStm:
//
//	switch '(' exp ')' '{' { (case assign | default) ':' statementList } '}'
func (p *Parser) switchStm() *syntax.Switch {
	tok := p.next()
	n := &syntax.Switch{Pos: syntax.Pos(tok.Line)}
	n.Cond = p.cond()
	p.expect(scan.LeftBrace, "")
	var tail *syntax.SwitchStm
	sawDefault := false
	for !p.is(scan.RightBrace, "") {
		tok := p.next()
		c := &syntax.SwitchStm{Pos: syntax.Pos(tok.Line)}
		switch {
		case tok.Type == scan.Keyword && tok.Text == "case":
			c.Match = p.assign()
		case tok.Type == scan.Keyword && tok.Text == "default":
			if sawDefault {
				p.errorf("multiple defaults in switch")
			}
			sawDefault = true
		default:
			p.errorf("expected case or default, found %s", tok)
		}
		p.expect(scan.Colon, "")
		c.Body = p.statementList()
		if tail == nil {
			n.Cases = c
		} else {
			tail.Next = c
		}
		tail = c
	}
	p.next()
	return n
}

// funcDef parses the rest of a function definition after '@' and the
// optional name.
//
//	'(' [ ['&'] name { ',' ['&'] name } ] ')' '{' statementList '}'
func (p *Parser) funcDef(name scan.Token) *syntax.FuncDef {
	f := &syntax.FuncDef{Pos: syntax.Pos(name.Line)}
	if name.Type == scan.Identifier {
		f.Name = name.Text
	}
	p.expect(scan.LeftParen, "")
	seen := map[string]bool{}
	for !p.is(scan.RightParen, "") {
		if len(f.Args) > 0 {
			p.expect(scan.Comma, "")
		}
		ref := false
		if p.is(scan.Operator, "&") {
			p.next()
			ref = true
		}
		arg := p.expect(scan.Identifier, "")
		if seen[arg.Text] {
			p.errorf("duplicate argument %s", arg.Text)
		}
		seen[arg.Text] = true
		f.Args = append(f.Args, syntax.Arg{Name: arg.Text, Ref: ref})
	}
	p.next()
	p.expect(scan.LeftBrace, "")
	f.Body = p.statementList()
	p.expect(scan.RightBrace, "")
	return f
}

// setDef:
//
//	name '{' { name ';' | '@' name '(' args ')' '{' statementList '}' } '}'
func (p *Parser) setDef() *syntax.SetDef {
	name := p.next()
	s := &syntax.SetDef{Pos: syntax.Pos(name.Line), Name: name.Text}
	p.expect(scan.LeftBrace, "")
	var tail *syntax.SetStm
	for !p.is(scan.RightBrace, "") {
		tok := p.next()
		m := &syntax.SetStm{Pos: syntax.Pos(tok.Line)}
		switch tok.Type {
		case scan.Identifier:
			m.Var = tok.Text
			p.expect(scan.Semicolon, "")
		case scan.At:
			m.Func = p.funcDef(p.expect(scan.Identifier, ""))
			if p.is(scan.Semicolon, "") {
				p.next()
			}
		default:
			p.errorf("unexpected %s in set %s", tok, s.Name)
		}
		if tail == nil {
			s.Members = m
		} else {
			tail.Next = m
		}
		tail = m
	}
	p.next()
	return s
}

// exp:
//
//	assign { ',' assign }
func (p *Parser) exp() *syntax.Exp {
	line := p.peek().Line
	head := &syntax.Exp{Pos: syntax.Pos(line), Expr: p.assign()}
	tail := head
	for p.is(scan.Comma, "") {
		tok := p.next()
		e := &syntax.Exp{Pos: syntax.Pos(tok.Line), Expr: p.assign()}
		tail.Next = e
		tail = e
	}
	return head
}

var assignOps = map[string]syntax.Op{
	"=":   syntax.Assign,
	"+=":  syntax.AddAssign,
	"-=":  syntax.SubAssign,
	"<<=": syntax.LshAssign,
	">>=": syntax.RshAssign,
	"*=":  syntax.MulAssign,
	"/=":  syntax.DivAssign,
	"|=":  syntax.OrAssign,
	"&=":  syntax.AndAssign,
	"^=":  syntax.XorAssign,
	"%=":  syntax.ModAssign,
}

// assign:
//
//	logicLow [ assignOp assign ]
func (p *Parser) assign() syntax.Node {
	left := p.binary(0)
	tok := p.peek()
	op, ok := assignOps[tok.Text]
	if tok.Type != scan.Operator || !ok {
		return left
	}
	if !assignable(left) {
		p.errorf("cannot assign to %s", syntax.Dump(left))
	}
	p.next()
	return &syntax.Assignment{Pos: syntax.Pos(tok.Line), Left: left, Op: op, Right: p.assign()}
}

// assignable reports whether n can be the target of an assignment.
func assignable(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.Factor:
		return n.Type == syntax.IdentFactor
	case *syntax.Locate:
		return n.Op != syntax.Call
	}
	return false
}

// levels lists the binary precedence levels from lowest to highest.
var levels = []struct {
	kind syntax.Kind
	ops  map[string]syntax.Op
}{
	{syntax.LogicLowKind, map[string]syntax.Op{"||": syntax.LogicOr, "&&": syntax.LogicAnd}},
	{syntax.LogicHighKind, map[string]syntax.Op{"|": syntax.Or, "&": syntax.And, "^": syntax.Xor}},
	{syntax.RelativeLowKind, map[string]syntax.Op{"==": syntax.Eq, "!=": syntax.Ne}},
	{syntax.RelativeHighKind, map[string]syntax.Op{"<": syntax.Lt, "<=": syntax.Le, ">": syntax.Gt, ">=": syntax.Ge}},
	{syntax.MoveKind, map[string]syntax.Op{"<<": syntax.Lsh, ">>": syntax.Rsh}},
	{syntax.AddSubKind, map[string]syntax.Op{"+": syntax.Add, "-": syntax.Sub}},
	{syntax.MulDivKind, map[string]syntax.Op{"*": syntax.Mul, "/": syntax.Div, "%": syntax.Mod}},
}

// binary parses one left-associative precedence level. A level with no
// operator collapses to its operand.
func (p *Parser) binary(level int) syntax.Node {
	if level == len(levels) {
		return p.suffix()
	}
	left := p.binary(level + 1)
	for {
		tok := p.peek()
		op, ok := levels[level].ops[tok.Text]
		if tok.Type != scan.Operator || !ok {
			return left
		}
		p.next()
		left = syntax.NewBinary(levels[level].kind, tok.Line, left, op, p.binary(level+1))
	}
}

// suffix:
//
//	spec [ '++' | '--' ]
func (p *Parser) suffix() syntax.Node {
	operand := p.spec()
	tok := p.peek()
	if tok.Type == scan.Operator && (tok.Text == "++" || tok.Text == "--") {
		p.next()
		op := syntax.Inc
		if tok.Text == "--" {
			op = syntax.Dec
		}
		return &syntax.Suffix{Pos: syntax.Pos(tok.Line), Operand: operand, Op: op}
	}
	return operand
}

var prefixOps = map[string]syntax.Op{
	"-":  syntax.Neg,
	"~":  syntax.Reverse,
	"!":  syntax.Not,
	"++": syntax.Inc,
	"--": syntax.Dec,
}

// spec:
//
//	prefixOp spec
//	locate
func (p *Parser) spec() syntax.Node {
	tok := p.peek()
	if op, ok := prefixOps[tok.Text]; ok && tok.Type == scan.Operator {
		p.next()
		return &syntax.Spec{Pos: syntax.Pos(tok.Line), Op: op, Operand: p.spec()}
	}
	return p.locate()
}

// locate:
//
//	primary { '[' exp ']' | '.' name | '(' args ')' }
func (p *Parser) locate() syntax.Node {
	left := p.primary()
	for {
		tok := p.peek()
		l := &syntax.Locate{Pos: syntax.Pos(tok.Line), Left: left}
		switch tok.Type {
		case scan.LeftBrack:
			p.next()
			l.Op = syntax.Index
			l.Index = p.exp()
			p.expect(scan.RightBrack, "")
		case scan.Dot:
			p.next()
			l.Op = syntax.Property
			l.Name = p.expect(scan.Identifier, "").Text
		case scan.LeftParen:
			p.next()
			l.Op = syntax.Call
			l.Args = p.elemList(scan.RightParen, false)
		default:
			return left
		}
		left = l
	}
}

// primary:
//
//	'$' name
//	'(' exp ')'
//	factor
func (p *Parser) primary() syntax.Node {
	tok := p.peek()
	switch tok.Type {
	case scan.Dollar:
		p.next()
		name := p.expect(scan.Identifier, "")
		return &syntax.Spec{Pos: syntax.Pos(tok.Line), Op: syntax.New, Name: name.Text}
	case scan.LeftParen:
		p.next()
		e := p.exp()
		p.expect(scan.RightParen, "")
		if e.Next == nil {
			return e.Expr
		}
		return e
	}
	return p.factor()
}

// factor:
//
//	nil | true | false | int | real | string | name
//	'[' elemList ']'
//	'@' '(' args ')' '{' statementList '}'
func (p *Parser) factor() *syntax.Factor {
	tok := p.next()
	f := &syntax.Factor{Pos: syntax.Pos(tok.Line)}
	switch tok.Type {
	case scan.Keyword:
		switch tok.Text {
		case "nil":
			f.Type = syntax.NilFactor
		case "true":
			f.Type = syntax.TrueFactor
		case "false":
			f.Type = syntax.FalseFactor
		default:
			p.errorf("unexpected %s", tok)
		}
	case scan.Int:
		f.Type = syntax.IntFactor
		i, err := strconv.ParseInt(tok.Text, 0, 64)
		if err != nil {
			p.errorf("bad integer %s: %v", tok.Text, err.(*strconv.NumError).Err)
		}
		f.Int = i
	case scan.Real:
		f.Type = syntax.RealFactor
		r, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.errorf("bad real %s: %v", tok.Text, err.(*strconv.NumError).Err)
		}
		f.Real = r
	case scan.String:
		f.Type = syntax.StringFactor
		f.Str = tok.Text
	case scan.Identifier:
		f.Type = syntax.IdentFactor
		f.Str = tok.Text
	case scan.LeftBrack:
		f.Type = syntax.ArrayFactor
		f.Elems = p.elemList(scan.RightBrack, true)
	case scan.At:
		f.Type = syntax.FuncFactor
		f.Func = p.funcDef(tok)
	default:
		p.errorf("unexpected %s", tok)
	}
	return f
}

// elemList parses a comma-separated list ending with the closing token,
// which it consumes. If keyed is set, elements may be written key: value.
func (p *Parser) elemList(end scan.Type, keyed bool) *syntax.ElemList {
	var head, tail *syntax.ElemList
	for !p.is(end, "") {
		if head != nil {
			p.expect(scan.Comma, "")
		}
		line := p.peek().Line
		e := &syntax.ElemList{Pos: syntax.Pos(line), Value: p.assign()}
		if keyed && p.is(scan.Colon, "") {
			p.next()
			e.Key = e.Value
			e.Value = p.assign()
		}
		if head == nil {
			head = e
		} else {
			tail.Next = e
		}
		tail = e
	}
	p.next()
	return head
}
